package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	ListingNotFound         failure.ErrorCode = "ListingNotFound"
	TaskNotFound            failure.ErrorCode = "TaskNotFound"
	InvalidBrand            failure.ErrorCode = "InvalidBrand"
	InvalidModel            failure.ErrorCode = "InvalidModel"
	InvalidYear             failure.ErrorCode = "InvalidYear"
	InvalidMileage          failure.ErrorCode = "InvalidMileage"
	InvalidFuelType         failure.ErrorCode = "InvalidFuelType"
	InvalidTransmission     failure.ErrorCode = "InvalidTransmission"
	InvalidDrivetrain       failure.ErrorCode = "InvalidDrivetrain"
	InvalidBodyType         failure.ErrorCode = "InvalidBodyType"
	InvalidPaging           failure.ErrorCode = "InvalidPaging"
	InvalidAnalysisRequest  failure.ErrorCode = "InvalidAnalysisRequest"
	ScrapeSourceUnavailable failure.ErrorCode = "ScrapeSourceUnavailable"
)
