package services

import (
	"fmt"
	"html/template"
	"os"
	"strings"
)

// BuildCorrespondenceHTML wraps plain-text paragraphs in the standard
// journal email frame. Paragraph text is escaped; line breaks become <br />.
func BuildCorrespondenceHTML(subject string, paragraphs []string) string {
	var content strings.Builder
	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		escaped := template.HTMLEscapeString(trimmed)
		escaped = strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "\n"), "\r", "\n")
		escaped = strings.ReplaceAll(escaped, "\n", "<br />")
		content.WriteString(`<p style="margin:0 0 18px 0;line-height:1.7;word-break:break-word;">`)
		content.WriteString(escaped)
		content.WriteString(`</p>`)
	}

	systemName := os.Getenv("SYSTEM_NAME")
	if systemName == "" {
		systemName = "Journal Manuscript System"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
<div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
<h1 style="margin:0 0 24px 0;font-size:22px;font-weight:700;color:#111827;line-height:1.35;word-break:break-word;">%s</h1>
%s
</div>
<div style="text-align:center;padding:18px 8px 0 8px;color:#9ca3af;font-size:12px;line-height:1.6;">
This message was sent automatically by %s. Please do not reply to this email.
</div>
</div>
</body>
</html>`,
		template.HTMLEscapeString(subject),
		template.HTMLEscapeString(subject),
		content.String(),
		template.HTMLEscapeString(systemName),
	)
}
