// Package validation проверяет пользовательские поля (имена, адрес, телефон)
// и возвращает решение вместе с читаемыми причинами отказа.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Result - решение валидатора. Reasons пуст, если Valid == true.
type Result struct {
	Valid   bool
	Reasons []string
}

// Profile - поля профиля, которые проверяет валидатор.
type Profile struct {
	FirstName string
	LastName  string
	Address   string
	Phone     string
}

type check struct {
	tag     string
	message string
}

type field struct {
	emptyMessage string
	checks       []check
}

var addressPattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

var (
	firstNameField = field{
		emptyMessage: "First name must not be empty",
		checks: []check{
			{tag: "alpha", message: "First name can only contain alphabets"},
			{tag: "min=2,max=25", message: "First name must have between 2 - 25 characters"},
		},
	}
	lastNameField = field{
		emptyMessage: "Last name must not be empty",
		checks: []check{
			{tag: "alpha", message: "Last name can only contain alphabets"},
			{tag: "min=2,max=25", message: "Last name must have between 2 - 25 characters"},
		},
	}
	addressField = field{
		emptyMessage: "Address must not be empty",
		checks: []check{
			{tag: "alphanumspace", message: "Address can only contain alphanumeric characters"},
			{tag: "min=6,max=40", message: "Address must have between 6 - 40 characters"},
		},
	}
	phoneField = field{
		emptyMessage: "Phone number must not be empty",
		checks: []check{
			{tag: "numeric", message: "Phone number can only contain numbers"},
			{tag: "len=11", message: "Phone number must have 11 digits"},
		},
	}
)

// FieldValidator реализует проверки полей поверх go-playground/validator.
type FieldValidator struct {
	validate *validator.Validate
}

// New создаёт FieldValidator с зарегистрированным правилом alphanumspace.
func New() *FieldValidator {
	validate := validator.New()
	// Ошибка возможна только при пустом теге или nil-функции.
	_ = validate.RegisterValidation("alphanumspace", func(fl validator.FieldLevel) bool {
		return addressPattern.MatchString(fl.Field().String())
	})
	return &FieldValidator{validate: validate}
}

// ValidateProfile проверяет все поля профиля и собирает причины по каждому.
func (v *FieldValidator) ValidateProfile(profile Profile) Result {
	var reasons []string
	reasons = append(reasons, v.run(firstNameField, profile.FirstName)...)
	reasons = append(reasons, v.run(lastNameField, profile.LastName)...)
	reasons = append(reasons, v.run(addressField, profile.Address)...)
	reasons = append(reasons, v.run(phoneField, profile.Phone)...)
	return newResult(reasons)
}

// ValidateAddress проверяет адрес доставки.
func (v *FieldValidator) ValidateAddress(address string) Result {
	return newResult(v.run(addressField, address))
}

// run возвращает только сообщение о пустом значении, если поле пустое; иначе
// сообщения всех не прошедших проверок.
func (v *FieldValidator) run(f field, value string) []string {
	if value == "" {
		return []string{f.emptyMessage}
	}
	var reasons []string
	for _, c := range f.checks {
		if err := v.validate.Var(value, c.tag); err != nil {
			reasons = append(reasons, c.message)
		}
	}
	return reasons
}

func newResult(reasons []string) Result {
	return Result{Valid: len(reasons) == 0, Reasons: reasons}
}
