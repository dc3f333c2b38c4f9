// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// AnalysisRequest — параметры оценки машины пользователя.
type AnalysisRequest struct {
	Marca       string   `json:"marca"       validate:"required,min=2,max=50"`
	Model       string   `json:"model"       validate:"required,min=1,max=100"`
	An          int      `json:"an"          validate:"required,gte=1990,lte=2025"`
	Km          int      `json:"km"          validate:"gte=0,lte=1000000"`
	Combustibil string   `json:"combustibil" validate:"required"`
	Transmisie  string   `json:"transmisie,omitempty"`
	Tractiune   string   `json:"tractiune,omitempty"`
	Caroserie   string   `json:"caroserie,omitempty"`
	Dotari      []string `json:"dotari,omitempty"`
}

// ScrapeRequest — параметры ручного запуска сбора объявлений.
type ScrapeRequest struct {
	Marca       string `json:"marca" validate:"required,min=2,max=50"`
	Model       string `json:"model,omitempty"`
	AnMin       int    `json:"an_min,omitempty"  validate:"omitempty,gte=1990,lte=2025"`
	AnMax       int    `json:"an_max,omitempty"  validate:"omitempty,gte=1990,lte=2025"`
	KmMin       int    `json:"km_min,omitempty"  validate:"omitempty,gte=0"`
	KmMax       int    `json:"km_max,omitempty"  validate:"omitempty,gte=0,lte=1000000"`
	Combustibil string `json:"combustibil,omitempty"`
	Transmisie  string `json:"transmisie,omitempty"`
	Caroserie   string `json:"caroserie,omitempty"`
}

// ScrapeStarted — ответ на постановку сбора в очередь.
type ScrapeStarted struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CleanupRequest — параметры деактивации устаревших объявлений.
type CleanupRequest struct {
	OlderThanDays int `json:"older_than_days,omitempty" validate:"omitempty,gte=1,lte=365"`
}

// CleanupResult — итог деактивации.
type CleanupResult struct {
	Deactivated int64 `json:"deactivated"`
}

// Brands — статический справочник марок.
type Brands struct {
	Brands []string `json:"brands"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
