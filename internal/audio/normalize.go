package audio

import (
	"github.com/handiism/cleantags/internal/model"
	"github.com/handiism/cleantags/internal/tags"
)

// duplicateSeparator joins the two halves of a duplicated value.
const duplicateSeparator = " / "

// DuplicateHalf reports whether value consists of exactly two identical,
// non-empty halves joined by " / ", and returns the half.
//
//	DuplicateHalf("Queen / Queen")    // "Queen", true
//	DuplicateHalf("Queen / Bohemian") // "", false
//	DuplicateHalf("A / A / A")        // "", false
func DuplicateHalf(value string) (string, bool) {
	n := len(value) - len(duplicateSeparator)
	if n <= 0 || n%2 != 0 {
		return "", false
	}

	half := n / 2
	left, sep, right := value[:half], value[half:half+len(duplicateSeparator)], value[half+len(duplicateSeparator):]
	if sep != duplicateSeparator || left != right {
		return "", false
	}
	return left, true
}

// Normalize returns a fix for every alias of every field whose value in c
// matches the duplication pattern. Fields are checked in order; absent
// keys are skipped.
func Normalize(c tags.Container, fields []tags.Field) []model.FieldFix {
	var fixes []model.FieldFix
	for _, field := range fields {
		for _, key := range field.Aliases() {
			value, ok := c.Get(key)
			if !ok {
				continue
			}
			fixed, ok := DuplicateHalf(value)
			if !ok {
				continue
			}
			fixes = append(fixes, model.FieldFix{
				Field: field.Label(),
				Key:   key,
				Old:   value,
				New:   fixed,
			})
		}
	}
	return fixes
}

// Apply sets every fix on c. It stops at the first error.
func Apply(c tags.Container, fixes []model.FieldFix) error {
	for _, fix := range fixes {
		if err := c.Set(fix.Key, fix.New); err != nil {
			return err
		}
	}
	return nil
}
