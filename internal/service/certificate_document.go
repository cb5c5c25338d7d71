package service

import (
	"access_edu_backend/internal/model"
	"access_edu_backend/internal/util"
	"bytes"
	"html/template"
)

var certificateTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Certificate of Completion</title>
</head>
<body>
<main role="main" aria-labelledby="certificate-title">
<h1 id="certificate-title">Certificate of Completion</h1>
<p>This certifies that learner <strong>#{{.UserID}}</strong> has completed every lesson and passed every quiz of</p>
<h2>{{.CourseTitle}}</h2>
<p>Issued on <time datetime="{{.IssuedAtISO}}">{{.IssuedAt}}</time></p>
<p>Certificate ID: <code>{{.CertificateID}}</code></p>
</main>
</body>
</html>
`))

type certificateView struct {
	UserID        uint
	CourseTitle   string
	IssuedAt      string
	IssuedAtISO   string
	CertificateID string
}

// RenderCertificateDocument 生成可被读屏软件正确朗读的 HTML 证书
func RenderCertificateDocument(cert *model.Certificate, courseTitle string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	err := certificateTemplate.Execute(&buf, certificateView{
		UserID:        cert.UserID,
		CourseTitle:   courseTitle,
		IssuedAt:      cert.IssuedAt.Format(util.DateFormat),
		IssuedAtISO:   cert.IssuedAt.UTC().Format("2006-01-02T15:04:05Z"),
		CertificateID: cert.ID,
	})
	if err != nil {
		return nil, err
	}
	return &buf, nil
}
