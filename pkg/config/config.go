package config

import (
	"encoding"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Validator interface allows config structs to implement custom validation logic.
// If a config struct implements this interface, validation will be automatically
// called after loading configuration from files and environment variables.
type Validator interface {
	Validate() error
}

// setValue converts raw into the field's type. Types implementing
// encoding.TextUnmarshaler own their parsing and take precedence over the
// kind switch.
func setValue(field reflect.Value, raw string) error {
	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	if field.Type() == durationType {
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("failed to convert %s to duration: %v", raw, err)
		}
		field.SetInt(int64(duration))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to convert %s to int: %v", raw, err)
		}
		field.SetInt(intVal)
	case reflect.Float32, reflect.Float64:
		floatVal, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to convert %s to float: %v", raw, err)
		}
		field.SetFloat(floatVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("failed to convert %s to bool: %v", raw, err)
		}
		field.SetBool(boolVal)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		values := strings.Split(raw, ",")
		slice := reflect.MakeSlice(field.Type(), len(values), len(values))
		for i, v := range values {
			slice.Index(i).SetString(strings.TrimSpace(v))
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}

// isNestedConfig reports whether a struct field should be walked rather than
// assigned. Structs that parse themselves are leaves.
func isNestedConfig(field reflect.Value) bool {
	if field.Kind() != reflect.Struct || field.Type() == durationType {
		return false
	}
	return !(field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType))
}

// envTag splits an env struct tag into the variable name and its options.
// The allowempty option makes a present but empty variable count as set, so
// the empty value replaces the default instead of falling back to it.
func envTag(fieldType reflect.StructField) (name string, allowEmpty bool) {
	name, opts, _ := strings.Cut(fieldType.Tag.Get("env"), ",")
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == "allowempty" {
			allowEmpty = true
		}
	}
	return strings.TrimSpace(name), allowEmpty
}

func processFields(val reflect.Value, typeOfT reflect.Type) (map[string]bool, error) {
	setFields := make(map[string]bool)

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typeOfT.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		if isNestedConfig(field) {
			nested, err := processFields(field, fieldType.Type)
			if err != nil {
				return nil, err
			}
			for k, v := range nested {
				setFields[k] = v
			}
			continue
		}

		tag, allowEmpty := envTag(fieldType)
		if tag == "" {
			continue
		}
		envVal, ok := os.LookupEnv(tag)
		if !ok || (envVal == "" && !allowEmpty) {
			continue
		}

		// Keyed by struct type + field name so identically named fields in
		// different sections do not collide.
		setFields[typeOfT.Name()+"."+fieldType.Name] = true

		if err := setValue(field, envVal); err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
	}
	return setFields, nil
}

func isRequired(fieldType reflect.StructField) bool {
	switch strings.ToLower(fieldType.Tag.Get("required")) {
	case "true", "1":
		// a default satisfies the requirement
		return fieldType.Tag.Get("default") == ""
	}
	return false
}

func checkRequiredAndDefaults(val reflect.Value, typeOfT reflect.Type, setFields map[string]bool) error {
	var result error
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typeOfT.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		if isNestedConfig(field) {
			if err := checkRequiredAndDefaults(field, fieldType.Type, setFields); err != nil {
				result = multierror.Append(result, err)
			}
			continue
		}

		if field.IsZero() && isRequired(fieldType) {
			envName, _ := envTag(fieldType)
			result = multierror.Append(result, fmt.Errorf("required field env:%s / yaml:%s is missing",
				envName, fieldType.Tag.Get("yaml")))
			continue
		}

		defaultTag, hasDefault := fieldType.Tag.Lookup("default")
		if !hasDefault || defaultTag == "" || !field.IsZero() || setFields[typeOfT.Name()+"."+fieldType.Name] {
			continue
		}
		if err := setValue(field, defaultTag); err != nil {
			result = multierror.Append(result, fmt.Errorf("default for %s: %w", fieldType.Name, err))
		}
	}
	return result
}

// GetConfigFromEnvVars loads configuration from environment variables only.
// It processes struct tags: env (with the optional allowempty flag),
// default, required.
// Example usage:
//
//	var cfg MyConfig
//	err := GetConfigFromEnvVars(&cfg)
func GetConfigFromEnvVars[T any](dest *T) error {
	if err := applyEnv(dest); err != nil {
		return err
	}
	return validate(dest)
}

func applyEnv[T any](dest *T) error {
	val := reflect.ValueOf(dest).Elem()
	typeOfT := val.Type()
	setFields, err := processFields(val, typeOfT)
	if err != nil {
		return err
	}
	if err := checkRequiredAndDefaults(val, typeOfT, setFields); err != nil {
		var zero T
		*dest = zero
		return err
	}
	return nil
}

// validate runs Validate when the type implements Validator with either a
// value or pointer receiver.
func validate[T any](dest *T) error {
	if validator, ok := any(dest).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// GetConfig loads configuration from YAML file first, then overlays environment variables.
// If filepath is empty, only environment variables are used.
// If allowFileErrors is true, file read/parse errors fallback to env vars only.
// Example usage:
//
//	var cfg MyConfig
//	err := GetConfig(&cfg, "config.yaml", true)
func GetConfig[T any](dest *T, filepath string, allowFileErrors bool) error {
	if filepath == "" {
		return GetConfigFromEnvVars(dest)
	}
	data, err := os.ReadFile(filepath)
	if err != nil {
		if allowFileErrors {
			return GetConfigFromEnvVars(dest)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	// ${VAR} references in the file are expanded from the environment.
	data = []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(data, dest); err != nil {
		if allowFileErrors {
			var zero T
			*dest = zero
			return GetConfigFromEnvVars(dest)
		}
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return GetConfigFromEnvVars(dest)
}
