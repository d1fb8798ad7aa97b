package models

import "strings"

// Kind 收支类型，类别与交易共用
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind 解析收支类型（大小写不敏感）
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, true
	case KindExpense:
		return KindExpense, true
	}
	return "", false
}

// Label 仪表盘中使用的大写标签：INCOME / EXPENSE
func (k Kind) Label() string {
	return strings.ToUpper(string(k))
}

// DisplayName 邮件与导出中展示的中文名称
func (k Kind) DisplayName() string {
	if k == KindIncome {
		return "收入"
	}
	return "支出"
}
