/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package errors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "NotFound"
	ErrorTypeServerError  ErrorType = "ServerError"
	ErrorTypeDBError      ErrorType = "DBError"
	ErrorTypeBadRequest   ErrorType = "BadRequest"
	ErrorTypeConfig       ErrorType = "ConfigurationError"
	ErrorTypeUnknown      ErrorType = "Unknown"
	ErrorTypeDataSource   ErrorType = "DataSourceError"
	ErrorTypeSchema       ErrorType = "SchemaError"
	ErrorTypeUnderfitting ErrorType = "UnderfittingError"
	ErrorTypeOverfit      ErrorType = "OverfitError"
	ErrorTypeTransientIO  ErrorType = "TransientIOError"
	ErrorTypePipeline     ErrorType = "PipelineError"
)

type CommonPipelineError struct {
	errorType ErrorType
	message   string
	stage     string
	cause     error
}

type PipelineError interface {
	ErrorType() ErrorType
	Message() string
	Stage() string
	IsErrorType(errorType ErrorType) bool
	Error() string
	Unwrap() error
	ConvertToHTTPError() *echo.HTTPError
}

func (p CommonPipelineError) ErrorType() ErrorType {
	return p.errorType
}

func (p CommonPipelineError) Message() string {
	return p.message
}

func (p CommonPipelineError) Stage() string {
	return p.stage
}

func (p CommonPipelineError) Error() string {
	if p.stage != "" && p.cause != nil {
		return fmt.Sprintf("%s: %s: %v", p.stage, p.message, p.cause)
	}
	if p.stage != "" {
		return fmt.Sprintf("%s: %s", p.stage, p.message)
	}
	if p.cause != nil {
		return fmt.Sprintf("%s: %v", p.message, p.cause)
	}
	return p.message
}

func (p CommonPipelineError) Unwrap() error {
	return p.cause
}

func (p CommonPipelineError) IsErrorType(errorType ErrorType) bool {
	if errorType == p.errorType {
		return true
	}
	if cause, ok := p.cause.(PipelineError); ok {
		return cause.IsErrorType(errorType)
	}
	return false
}

func (p CommonPipelineError) ConvertToHTTPError() *echo.HTTPError {
	return echo.NewHTTPError(errorTypeToCode(p.ErrorType()), p.Error())
}

func NewCommonPipelineError(errorType ErrorType, message string) CommonPipelineError {
	return CommonPipelineError{errorType: errorType, message: message}
}

// NewStageError wraps a failure at a stage boundary, preserving the cause so
// the originating error type can still be matched via IsErrorType.
func NewStageError(stage string, message string, cause error) CommonPipelineError {
	return CommonPipelineError{
		errorType: ErrorTypePipeline,
		message:   message,
		stage:     stage,
		cause:     cause,
	}
}

func errorTypeToCode(status ErrorType) int {
	switch status {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeBadRequest, ErrorTypeSchema:
		return http.StatusBadRequest
	case ErrorTypeTransientIO, ErrorTypeDataSource:
		return http.StatusBadGateway
	case ErrorTypeServerError, ErrorTypeDBError, ErrorTypeUnknown,
		ErrorTypeConfig, ErrorTypeUnderfitting, ErrorTypeOverfit, ErrorTypePipeline:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
