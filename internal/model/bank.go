package model

const MainBankName = "Main Bank"

type Bank struct {
	Name        string
	Description string
	Balance     int64
}
