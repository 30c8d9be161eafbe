package model

type Sex int

const (
	SexFemale Sex = 0
	SexMale   Sex = 1
)

type Client struct {
	ID      int64
	Name    string
	Age     int
	Sex     Sex
	Phone   string
	PinHash string
	Balance int64
}

// Registration is the raw input of the registration form.
type Registration struct {
	Name  string
	Age   string `validate:"required,number"`
	Sex   string `validate:"required,oneof=0 1"`
	Phone string `validate:"required,number,min=10"`
	Pin   string `validate:"required,number,len=4"`
}
