package validate

// Field names shared by the login and profile forms.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

var emailMessages = map[Kind]string{
	RequiredMissing: "Email is required",
	PatternMismatch: "Email is not valid",
}

// LoginRules are the constraints of the login form.
func LoginRules() []Rule {
	return []Rule{
		{
			Field:    FieldEmail,
			Required: true,
			Pattern:  EmailPattern,
			Messages: emailMessages,
		},
		{
			Field:     FieldPassword,
			Required:  true,
			MinLength: MinPasswordLen,
			Messages: map[Kind]string{
				RequiredMissing: "Password is required",
				TooShort:        "Password length is more than 5",
			},
		},
	}
}

// ProfileRules are the constraints of the profile form. Both password
// fields are optional: leaving them empty keeps the current password.
// Their equality is checked by the page before submit so a mismatch can be
// reported as a notification rather than under a field.
func ProfileRules() []Rule {
	return []Rule{
		{
			Field:     FieldName,
			Required:  true,
			MinLength: 2,
			Messages: map[Kind]string{
				RequiredMissing: "Name is required",
				TooShort:        "Name length is more than 1",
			},
		},
		{
			Field:    FieldEmail,
			Required: true,
			Pattern:  EmailPattern,
			Messages: emailMessages,
		},
		{
			Field:     FieldPassword,
			MinLength: MinPasswordLen,
			Messages:  map[Kind]string{TooShort: "Password length is more than 5"},
		},
		{
			Field:     FieldConfirmPassword,
			MinLength: MinPasswordLen,
			Messages:  map[Kind]string{TooShort: "Confirm Password length is more than 5"},
		},
	}
}

// PasswordsMatch reports whether the profile password pair is acceptable:
// both empty (no change) or equal.
func PasswordsMatch(values map[string]string) bool {
	return Equals(FieldPassword)(values[FieldConfirmPassword], values) == Absent
}
