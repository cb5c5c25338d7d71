package service

import (
	"access_edu_backend/internal/model"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// CertificateIssuedChannel 证书颁发事件的 Redis 频道
const CertificateIssuedChannel = "certificate:issued"

// CertificateNotifier 证书颁发后的通知出口
type CertificateNotifier interface {
	NotifyIssued(ctx context.Context, cert *model.Certificate) error
}

type CertificateIssuedEvent struct {
	CertificateID  string    `json:"certificateId"`
	UserID         uint      `json:"userId"`
	CourseID       uint      `json:"courseId"`
	CertificateURL string    `json:"certificateUrl"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// RedisCertificateNotifier 通过 Redis Pub/Sub 广播证书颁发事件
type RedisCertificateNotifier struct {
	Redis *redis.Client
}

func NewRedisCertificateNotifier(rdb *redis.Client) *RedisCertificateNotifier {
	return &RedisCertificateNotifier{Redis: rdb}
}

func (n *RedisCertificateNotifier) NotifyIssued(ctx context.Context, cert *model.Certificate) error {
	payload, err := json.Marshal(CertificateIssuedEvent{
		CertificateID:  cert.ID,
		UserID:         cert.UserID,
		CourseID:       cert.CourseID,
		CertificateURL: cert.CertificateURL,
		IssuedAt:       cert.IssuedAt,
	})
	if err != nil {
		return err
	}
	return n.Redis.Publish(ctx, CertificateIssuedChannel, payload).Err()
}

// NopCertificateNotifier 未启用 Redis 时使用
type NopCertificateNotifier struct{}

func (NopCertificateNotifier) NotifyIssued(context.Context, *model.Certificate) error {
	return nil
}
