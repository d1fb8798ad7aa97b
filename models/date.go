package models

import "time"

// DateLayout 日历日期格式，交易日期按此格式存储，字典序即时间序
const DateLayout = "2006-01-02"

// MinDate 筛选未指定开始日期时使用的最小日期
const MinDate = "0001-01-01"

// ParseDate 校验并规范化日期字符串
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// FormatDate 按本地日历取日期部分
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthRange 返回 t 所在自然月的第一天与最后一天（闭区间）
func MonthRange(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}
