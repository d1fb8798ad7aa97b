package api

import (
	"moneymanager/models"
	"moneymanager/service"
)

// NewExpenseHandler 支出处理器，删除参数为 expenseId
func NewExpenseHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, kind: models.KindExpense, idParam: "expenseId"}
}
