package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	RequestTooLarge     failure.ErrorCode = "RequestTooLarge"

	ModelNotLoaded      failure.ErrorCode = "ModelNotLoaded"
	InvalidModel        failure.ErrorCode = "InvalidModel"
	InvalidMeasurement  failure.ErrorCode = "InvalidMeasurement"
	BatchTooLarge       failure.ErrorCode = "BatchTooLarge"
	InvalidDataset      failure.ErrorCode = "InvalidDataset"
	JournalUnavailable  failure.ErrorCode = "JournalUnavailable"
	PredictionNotStored failure.ErrorCode = "PredictionNotStored"
)
