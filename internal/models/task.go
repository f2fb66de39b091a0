// Package models содержит доменные структуры, описывающие задачу,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Статусы задачи. Переход один: Pending -> Completed.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Приоритеты задачи.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// DefaultTaskName имя задачи по умолчанию, если клиент его не передал.
const DefaultTaskName = "Untitled Task"

// Task представляет собой основную модель задачи,
// используемую в бизнес-логике и хранилище.
// Поля Deadline и Reminder могут быть nil — это означает их отсутствие.
// Поле Reminder хранится, но доставка напоминаний не выполняется.
type Task struct {
	ID          int        `json:"id"`                    // Идентификатор задачи
	Name        string     `json:"name"`                  // Название задачи
	Description *string    `json:"description,omitempty"` // Описание (опционально)
	Deadline    *time.Time `json:"deadline,omitempty"`    // Срок выполнения (опционально)
	Reminder    *time.Time `json:"reminder,omitempty"`    // Время напоминания (опционально)
	Status      string     `json:"status"`                // Pending или Completed
	Priority    string     `json:"priority"`              // High, Medium или Low
	UserUID     string     `json:"-"`                     // Владелец задачи, наружу не отдаётся
}

// DummyTask используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Task.
// Даты приходят в виде строк, чтобы их можно было валидировать и парсить вручную.
type DummyTask struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=100"`                    // Название задачи
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`           // Описание
	Deadline    string `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`   // Срок в формате 2006-01-02
	Reminder    string `json:"reminder,omitempty" validate:"omitempty"`                       // Напоминание в формате RFC3339
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=Pending Completed"` // Статус
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=High Medium Low"` // Приоритет
}
