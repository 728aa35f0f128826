// Package prompt renders response-format instructions from Go struct tags,
// so a node can ask the model for exactly the YAML shape it will parse.
package prompt

import (
	"fmt"
	"reflect"
	"strings"
)

// GenerateStructuredPrompt creates an instruction block for answering in the
// YAML shape of type T. Field names come from yaml tags, guidance from
// description tags.
func GenerateStructuredPrompt[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Sprintf("Respond with a single valid %s value.", t.Name())
	}

	var builder strings.Builder
	builder.WriteString("Respond with EXACTLY this YAML structure and no other text:\n\n")
	builder.WriteString("```yaml\n")
	writeYAMLStructure(t, &builder, 0)
	builder.WriteString("```\n\n")
	builder.WriteString("Field descriptions:\n")
	writeFieldDescriptions(t, &builder, "")
	return builder.String()
}

func writeYAMLStructure(t reflect.Type, builder *strings.Builder, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := yamlFieldName(field)
		if name == "-" {
			continue
		}
		builder.WriteString(indentStr + name + ": ")

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}
		switch fieldType.Kind() {
		case reflect.Struct:
			builder.WriteString("\n")
			writeYAMLStructure(fieldType, builder, indent+1)
		case reflect.Slice:
			builder.WriteString(fmt.Sprintf("[] # array of %s\n", fieldType.Elem().Kind()))
		default:
			builder.WriteString(fmt.Sprintf("\"\" # %s\n", fieldType.Kind()))
		}
	}
}

func writeFieldDescriptions(t reflect.Type, builder *strings.Builder, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := yamlFieldName(field)
		if name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		description := field.Tag.Get("description")
		if description == "" {
			description = fmt.Sprintf("Field of type %s", field.Type.String())
		}
		builder.WriteString(fmt.Sprintf("- %s: %s\n", name, description))

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Struct {
			writeFieldDescriptions(fieldType, builder, name)
		}
	}
}

// yamlFieldName extracts the yaml field name from the struct tag, handling
// options like "name,omitempty".
func yamlFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if tag == "" {
		return strings.ToLower(field.Name)
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "" {
		return strings.ToLower(field.Name)
	}
	return parts[0]
}
