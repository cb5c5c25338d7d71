package model

import (
	"time"
)

// Certificate 课程结业证书，每个 (用户, 课程) 唯一，只能由结业校验写入
// swagger:model Certificate
type Certificate struct {
	UUIDBase
	UserID         uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"userId"`
	CourseID       uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"courseId"`
	IssuedAt       time.Time `gorm:"not null" json:"issuedAt"`
	CertificateURL string    `gorm:"size:512;not null" json:"certificateUrl"`
}

func (Certificate) TableName() string {
	return "certificates"
}
