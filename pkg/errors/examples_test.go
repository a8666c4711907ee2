package errors_test

import (
	"fmt"
	"net/http"

	"github.com/intakesync/intakesync/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	// Create a not found error
	err := &errors.NotFoundError{
		Resource: "appointment",
		ID:       "98765",
	}

	// Check error type
	if errors.IsNotFound(err) {
		fmt.Println("Resource not found")
	}

	// Output: Resource not found
}

// Example_aPIError demonstrates API error handling.
func Example_aPIError() {
	// Simulate an API error
	err := &errors.APIError{
		Service:    "acuity",
		Endpoint:   "https://acuityscheduling.com/api/v1/appointments",
		StatusCode: 429,
		Message:    "Rate limit exceeded",
	}

	// Check and handle specific error types
	switch err.StatusCode {
	case 429:
		fmt.Println("Rate limited - retry later")
	case 401:
		fmt.Println("Authentication failed")
	case 500:
		fmt.Println("Server error")
	}

	// Output: Rate limited - retry later
}

// Example_authenticationError shows authentication error handling.
func Example_authenticationError() {
	// Create authentication error
	err := &errors.AuthenticationError{
		Service: "airtable",
		Message: "API key not configured",
	}

	// Auth error is already typed
	fmt.Printf("Auth failed for %s: %s\n",
		err.Service, err.Message)

	// Output: Auth failed for airtable: API key not configured
}

// Example_errorWrapping demonstrates error wrapping patterns.
func Example_errorWrapping() {
	// Original error
	originalErr := fmt.Errorf("connection refused")

	// Wrap with IO error
	ioErr := errors.WrapIO("connect", "api.airtable.com", originalErr)

	// Wrap with API error
	_ = &errors.APIError{
		Service:    "airtable",
		Endpoint:   "https://api.airtable.com/v0/app123/Intakes",
		StatusCode: 0,
		Message:    "Failed to connect",
		Err:        ioErr,
	}

	// API error type is already known
	fmt.Println("API error occurred")

	// Output: API error occurred
}

// Example_validationError shows input validation errors.
func Example_validationError() {
	// Validate input
	apiKey := ""
	if apiKey == "" {
		err := &errors.ValidationError{
			Field:   "api_key",
			Value:   apiKey,
			Message: "API key cannot be empty",
		}
		fmt.Println(err.Error())
	}

	// Output: validation failed for field api_key: API key cannot be empty
}

// Example_errorChaining shows chained error handling.
func Example_errorChaining() {
	// Create a chain of errors
	baseErr := &errors.NotFoundError{
		Resource: "file",
		ID:       "run_log.json",
	}

	parseErr := &errors.ParseError{
		Format:  "json",
		File:    "run_log.json",
		Message: "Failed to parse run log",
		Err:     baseErr,
	}

	// Check through the chain using standard library
	if parseErr.Err != nil {
		if _, ok := parseErr.Err.(*errors.NotFoundError); ok {
			fmt.Println("File not found in parse chain")
		}
	}

	// Output: File not found in parse chain
}

// Example_hTTPStatusMapping maps HTTP codes to error types.
func Example_hTTPStatusMapping() {
	// Map HTTP status to appropriate error
	mapHTTPError := func(status int, service string) error {
		switch status {
		case http.StatusNotFound:
			return &errors.NotFoundError{
				Resource: "endpoint",
				ID:       service,
			}
		case http.StatusUnauthorized:
			return &errors.AuthenticationError{
				Service: service,
				Message: "Invalid credentials",
			}
		case http.StatusTooManyRequests:
			return &errors.APIError{
				Service:    service,
				StatusCode: 429,
				Message:    "Rate limit exceeded",
			}
		default:
			return &errors.APIError{
				Service:    service,
				StatusCode: status,
				Message:    http.StatusText(status),
			}
		}
	}

	err := mapHTTPError(401, "acuity")
	if _, ok := err.(*errors.AuthenticationError); ok {
		fmt.Println("Authentication required")
	}

	// Output: Authentication required
}
