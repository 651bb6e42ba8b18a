package cli

import (
	"fmt"
	"os"

	"github.com/statlab-ide/rassist/internal/config"
)

// Validate validates a rassist configuration file
func Validate(configPath string) error {
	if configPath == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		configPath = config.FindConfig(currentDir)
		if configPath == "" {
			return fmt.Errorf("no config file found in current directory")
		}
	}

	fmt.Printf("Validating: %s\n\n", configPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Schema validation first, semantic checks once the shape is right
	result, err := config.ValidateWithSchema(configPath, content)
	if err != nil {
		return err
	}

	if result.Valid {
		semantic, err := config.Validate(configPath)
		if err != nil {
			return err
		}
		if !semantic.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, semantic.Errors...)
		}
	}

	if result.Valid {
		fmt.Println("✅ Configuration is valid!")
		return nil
	}

	fmt.Println("❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		fmt.Printf("%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	fmt.Printf("\nFound %d error(s)\n", len(result.Errors))

	return fmt.Errorf("validation failed")
}
