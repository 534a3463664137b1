// Package templater loads template files by naming convention.
//
// A template is addressed by a dotted name and a type tag. The name maps to
// directories under the base directory and the type becomes part of the file
// name:
//
//	name "list.item", type "header"  ->  {baseDir}/list/item.header{ext}
//	name "",          type "header"  ->  {baseDir}/header{ext}
//
// The file must exist before it is rendered; a missing file is reported as a
// *TemplateNotFoundError, the one error callers are expected to recover from.
// The template runs with the loader's global variables overridden by the
// values passed to the call.
package templater
