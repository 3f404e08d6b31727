/*
go-trackeval implements multi-object-tracking (MOT) evaluation for
box-track annotations.  Given ground-truth and predicted object tracks
for a set of videos it computes the standard CLEAR-MOT and identity
metrics (MOTA, MOTP, IDF1, identity switches, fragmentations,
mostly/partially tracked and mostly lost counts) per object category,
rolls categories up into semantic super classes and fuses the results
across videos into dataset level summary statistics.

The engine consumes already parsed per-frame label lists.  Annotation
file loading lives in the labelio subpackage and a command line driver
in cmd/trackeval.
*/
package trackeval
