package model

type DepositResult struct {
	Amount  int64
	Balance int64
}

type WithdrawalResult struct {
	Amount     int64
	Commission int64
	Total      int64
	Balance    int64
}
