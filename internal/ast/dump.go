package ast

import (
	"regexp"

	"github.com/sanity-io/litter"
)

var dumpOptions = litter.Options{
	StripPackageNames:         true,
	HidePrivateFields:         true,
	FieldExclusions:           regexp.MustCompile(`^StartToken$`),
	DisablePointerReplacement: true,
}

// Dump renders nodes as Go-like literals without source positions. Two
// trees dump to the same string exactly when they have the same shape and
// values, which makes it usable as structural equality.
func Dump(nodes ...any) string {
	return dumpOptions.Sdump(nodes...)
}
