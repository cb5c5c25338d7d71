package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeHTML = "text/html; charset=utf-8"
)

// 证书文件在存储中的目录前缀
const CertificateKeyPrefix = "certificates"
