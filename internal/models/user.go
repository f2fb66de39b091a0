// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и признак активации.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное, с учётом регистра)
	FullName     *string   // Полное имя (опционально)
	PasswordHash string    // Хэш пароля пользователя, наружу не отдаётся
	IsActive     bool      // Признак активации, становится true при первом входе
	CreatedAt    time.Time // Дата создания учётной записи
}

// UserInfo представляет публичную проекцию пользователя для ответов API.
// Хэш пароля в неё не попадает.
type UserInfo struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
	IsActive bool    `json:"is_active"`
}

// Info возвращает публичную проекцию пользователя.
func (u *User) Info() UserInfo {
	return UserInfo{
		Username: u.Username,
		FullName: u.FullName,
		IsActive: u.IsActive,
	}
}
