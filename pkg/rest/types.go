// Wire types of the prediction API. Field names follow the snake_case
// contract the browser page and existing clients already speak.
package rest

// Measurement is a single flower. Pointers let validation tell a missing
// field from an explicit zero.
type Measurement struct {
	SepalLength *float64 `json:"sepal_length" validate:"required,gte=0,lte=10"`
	SepalWidth  *float64 `json:"sepal_width" validate:"required,gte=0,lte=10"`
	PetalLength *float64 `json:"petal_length" validate:"required,gte=0,lte=10"`
	PetalWidth  *float64 `json:"petal_width" validate:"required,gte=0,lte=10"`
}

type Prediction struct {
	Species       string             `json:"species"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

type BatchPrediction struct {
	Predictions []Prediction `json:"predictions"`
}

type Health struct {
	Status        string `json:"status"`
	IsModelLoaded bool   `json:"is_model_loaded"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI)
	Message string `json:"message"`

	// SupportID trace id запроса
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
