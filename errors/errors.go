package errors

import (
	Errors "errors"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/hsn8086/re-hcat-server/global"
)

// HandleFatalError handles global error
func HandleFatalError(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// HandleBasicError handles basic error and logs
func HandleBasicError(err error) bool {
	if err != nil {
		global.InternalLogger.Println(err)
		return true
	}
	return false
}

// HandleComplexError handles complex errors and logs
func HandleComplexError(problem string, err string) error {
	global.MonitorLogger.Println("Complex error; Problem: " + problem + "; Error: " + err)
	return Errors.New("Problem: " + problem + "; Error: " + err)
}

// HandleInternalError logs internal errors (things that should never happen in normal circumstances)
func HandleInternalError(problem string, err string) {
	global.InternalLogger.Println("Problem: " + problem + "; Error: " + err)
}

// ValidatorField names the first failing field of a validation error
func ValidatorField(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return "parameters"
	}
	return validationErrs[0].StructField()
}
