package api

import (
	"moneymanager/models"
	"moneymanager/service"
)

// NewIncomeHandler 收入处理器，删除参数为 incomeId
func NewIncomeHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, kind: models.KindIncome, idParam: "incomeId"}
}
