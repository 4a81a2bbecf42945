package milp

import (
	"io"
	"regexp"
	"strings"
)

// indexedName matches bracketed index names such as y[0,1,2].
var indexedName = regexp.MustCompile(`(\w+)\[(\d+(?:,\d+)*)\]`)

// RewriteNames converts every name[i,j,k] in text to name_i_j_k. It is a
// pure text transform and knows nothing about the model.
func RewriteNames(text string) string {
	return indexedName.ReplaceAllStringFunc(text, func(match string) string {
		sub := indexedName.FindStringSubmatch(match)
		return sub[1] + "_" + strings.ReplaceAll(sub[2], ",", "_")
	})
}

// DialectName applies RewriteNames to a single identifier.
func DialectName(name string) string {
	return RewriteNames(name)
}

// RewriteStream copies r to w with names rewritten.
func RewriteStream(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, RewriteNames(string(data)))
	return err
}
