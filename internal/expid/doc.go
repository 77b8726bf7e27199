// internal/expid/doc.go

/*
Package expid provides a structured representation of an experiment's
identity and the single encode/decode pair that maps it to and from its
directory path.

The canonical relative path is

	<platform>/<processors>/<x>x<y>/<slots>/<tag>-<tag>-...

where the application tags are sorted. The generator encodes identities with
RelPath; the runner and processor decode discovered directories with Parse.
No other code reads meaning off directory depth.
*/
package expid
