package rr

import "github.com/garrettladley/rrdash/internal/validator"

var (
	_ validator.Validator = LoginRequest{}
	_ validator.Validator = RegisterRequest{}
	_ validator.Validator = TelegramConfirmRequest{}
)

func (r LoginRequest) Validate() map[string]string {
	var v validator.Fields
	v.Email("email", r.Email)
	v.Required("password", r.Password, "enter a password")
	return v.Map()
}

func (r RegisterRequest) Validate() map[string]string {
	var v validator.Fields
	v.Required("first_name", r.FirstName, "enter a first name")
	v.Required("second_name", r.SecondName, "enter a last name")
	v.Email("email", r.Email)
	v.Required("password", r.Password, "enter a password")
	return v.Map()
}

func (r TelegramConfirmRequest) Validate() map[string]string {
	var v validator.Fields
	v.Required("temp_id", r.TempID, "missing registration id")
	v.Email("email", r.Email)
	return v.Map()
}
