package service

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"moneymanager/config"
	"moneymanager/models"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 未启用邮件服务
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 MONEYMANAGER_EMAIL_ENABLED=true")

// Mailer 业务层依赖的邮件发送接口
type Mailer interface {
	SendActivationEmail(toEmail, fullName, activationLink string) error
	SendReminderEmail(toEmail, fullName, link string) error
	SendExpenseSummaryEmail(toEmail, fullName, date string, expenses []models.Transaction, categoryNames map[uint]string) error
	SendWithAttachment(toEmail, subject, body, filename string, data []byte) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendActivationEmail 发送账号激活邮件
func (s *EmailService) SendActivationEmail(toEmail, fullName, activationLink string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, "【MoneyManager】激活您的账号", s.generateActivationEmailBody(fullName, activationLink), nil)
}

// SendReminderEmail 发送每日记账提醒
func (s *EmailService) SendReminderEmail(toEmail, fullName, link string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, "【MoneyManager】每日提醒：记录今天的收支", s.generateReminderEmailBody(fullName, link), nil)
}

// SendExpenseSummaryEmail 发送当日支出汇总
func (s *EmailService) SendExpenseSummaryEmail(toEmail, fullName, date string, expenses []models.Transaction, categoryNames map[uint]string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	subject := "【MoneyManager】今日支出汇总 - " + date
	return s.sendEmail(toEmail, subject, s.generateExpenseSummaryBody(fullName, expenses, categoryNames), nil)
}

// SendWithAttachment 发送带附件的邮件（Excel 导出）
func (s *EmailService) SendWithAttachment(toEmail, subject, body, filename string, data []byte) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, subject, body, func(m *gomail.Message) {
		m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	})
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string, decorate func(*gomail.Message)) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if decorate != nil {
		decorate(m)
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

const emailStyle = `
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .btn { display: inline-block; background: linear-gradient(135deg, #10b981, #059669); color: white !important; text-decoration: none; padding: 14px 40px; border-radius: 8px; font-weight: 600; margin: 20px 0; }
        table { border-collapse: collapse; width: 100%; }
        th, td { padding: 8px; border: 1px solid #ddd; }
        th { background-color: #f2f2f2; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }`

func wrapEmail(content string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>%s
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 MoneyManager</h1>
        </div>
        <div class="content">%s
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>您收到此邮件是因为您已注册 MoneyManager</p>
        </div>
    </div>
</body>
</html>
`, emailStyle, content)
}

// generateActivationEmailBody 生成激活邮件内容
func (s *EmailService) generateActivationEmailBody(fullName, activationLink string) string {
	return wrapEmail(fmt.Sprintf(`
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>感谢注册 MoneyManager，请点击下方按钮激活您的账号：</p>
            <p style="text-align: center;">
                <a href="%s" class="btn">激活账号</a>
            </p>
            <p>如果按钮无法点击，请复制以下链接到浏览器打开：</p>
            <p>%s</p>`,
		html.EscapeString(fullName), activationLink, html.EscapeString(activationLink)))
}

// generateReminderEmailBody 生成每日提醒邮件内容
func (s *EmailService) generateReminderEmailBody(fullName, link string) string {
	return wrapEmail(fmt.Sprintf(`
            <p>%s，您好 👋</p>
            <p>这是来自 <b>MoneyManager</b> 的每日提醒：别忘了记录今天的收入和支出。</p>
            <p>坚持记账可以帮助您更好地掌控预算目标。</p>
            <p style="text-align: center;">
                <a href="%s" class="btn">记录今日收支</a>
            </p>`,
		html.EscapeString(fullName), link))
}

// generateExpenseSummaryBody 生成当日支出汇总邮件内容
func (s *EmailService) generateExpenseSummaryBody(fullName string, expenses []models.Transaction, categoryNames map[uint]string) string {
	var rows strings.Builder
	for _, e := range expenses {
		category := categoryNames[e.CategoryID]
		if category == "" {
			category = fmt.Sprintf("#%d", e.CategoryID)
		}
		fmt.Fprintf(&rows, `
                    <tr>
                        <td>%s</td>
                        <td style="text-align: right;">%s</td>
                        <td>%s</td>
                    </tr>`,
			html.EscapeString(e.Name), e.Amount.StringFixed(2), html.EscapeString(category))
	}

	return wrapEmail(fmt.Sprintf(`
            <p>%s 的今日支出汇总：</p>
            <table>
                <thead>
                    <tr><th>名称</th><th>金额</th><th>类别</th></tr>
                </thead>
                <tbody>%s
                </tbody>
            </table>`,
		html.EscapeString(fullName), rows.String()))
}
