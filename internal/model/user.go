package model

// UserRole 与认证服务签发的 JWT 中的角色保持一致
type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)
