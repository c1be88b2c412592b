package domain

// Kind selects one of the two parallel record families. The families share
// a data model and endpoint surface but kept a few behavioral differences
// from the original product; those differences live here as profile methods
// so the handlers and stores stay generic.
type Kind string

const (
	KindPersona        Kind = "persona"
	KindAuthorityLevel Kind = "authorityLevel"
)

// Kinds lists both record families in their canonical order.
func Kinds() []Kind {
	return []Kind{KindPersona, KindAuthorityLevel}
}

// Path returns the URL segment for the family's collection.
func (k Kind) Path() string {
	if k == KindAuthorityLevel {
		return "authority-levels"
	}
	return "personas"
}

// Singular returns the JSON envelope key for a single record.
func (k Kind) Singular() string {
	if k == KindAuthorityLevel {
		return "authorityLevel"
	}
	return "persona"
}

// Plural returns the JSON envelope key for the full collection.
func (k Kind) Plural() string {
	if k == KindAuthorityLevel {
		return "authorityLevels"
	}
	return "personas"
}

// DeletedKey returns the JSON envelope key for a deleted record.
func (k Kind) DeletedKey() string {
	if k == KindAuthorityLevel {
		return "deletedAuthorityLevel"
	}
	return "deletedPersona"
}

// Label is the human name used in error messages.
func (k Kind) Label() string {
	if k == KindAuthorityLevel {
		return "Authority level"
	}
	return "Persona"
}

// DefaultTitle is the placeholder title for records created without one.
func (k Kind) DefaultTitle() string {
	if k == KindAuthorityLevel {
		return "New Authority Level"
	}
	return "New Persona"
}

// DefaultKey is the placeholder key for records created without one.
func (k Kind) DefaultKey() string {
	if k == KindAuthorityLevel {
		return "new_authority_level"
	}
	return "new_persona"
}

// StrictOperators reports whether group operators are validated against
// AND/OR. Authority Levels reject anything else with a 400; Personas accept
// any non-empty operator unchecked.
func (k Kind) StrictOperators() bool {
	return k == KindAuthorityLevel
}

// MergesEmptyContacts reports whether a record update applies a contacts
// value that is present but empty. Authority Levels apply any present value;
// Personas silently drop an empty string.
func (k Kind) MergesEmptyContacts() bool {
	return k == KindAuthorityLevel
}
