package bridge

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/teami-app/teami-backend/errs"
)

// Payload coercion follows the loose conversions the desktop renderer relies on:
// absent and null read as empty, scalars are stringified, numeric strings are numbers.

// looseString stringifies a value the way String(v ?? '') would.
func looseString(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	}
	if v.IsArray() {
		parts := make([]string, 0, len(v.Array()))
		for _, item := range v.Array() {
			parts = append(parts, looseString(item))
		}
		return strings.Join(parts, ",")
	}
	if v.IsObject() {
		return "[object Object]"
	}
	return ""
}

// trimmedString is looseString followed by whitespace trimming.
func trimmedString(v gjson.Result) string {
	return strings.TrimSpace(looseString(v))
}

// present reports whether a member was given with a non-null value.
func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

func requireObject(v gjson.Result, entity string) error {
	if !v.IsObject() {
		return errs.NewMalformedPayloadError(entity, errors.New("payload must be an object"))
	}
	return nil
}

// looseNumber converts numbers and numeric strings; ok is false for anything else.
func looseNumber(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// workspaceID accepts an integer number or a numeric string.
func workspaceID(v gjson.Result) (int64, error) {
	f, ok := looseNumber(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, errs.NewValidationErrorWithField("Workspace id must be an integer", "id")
	}
	return int64(f), nil
}

// progressValue accepts a number or numeric string and truncates it to an int.
// Range is not checked here.
func progressValue(v gjson.Result) (int, error) {
	f, ok := looseNumber(v)
	if !ok || math.Abs(f) > math.MaxInt32 {
		return 0, errs.NewInvalidFieldError("progress", "must be a number")
	}
	return int(f), nil
}

// labelsValue requires an array of strings; order and duplicates are kept.
func labelsValue(v gjson.Result) ([]string, error) {
	if !v.IsArray() {
		return nil, errs.NewInvalidFieldError("labels", "must be an array of strings")
	}
	items := v.Array()
	labels := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, errs.NewInvalidFieldError("labels", "must be an array of strings")
		}
		labels = append(labels, item.Str)
	}
	return labels, nil
}

// optionalTeam trims the team uuid; empty means no team.
func optionalTeam(v gjson.Result) *string {
	team := trimmedString(v)
	if team == "" {
		return nil
	}
	return &team
}

func requireProjectUUID(v gjson.Result) (string, error) {
	projectUUID := trimmedString(v)
	if projectUUID == "" {
		return "", errs.NewValidationErrorWithField("Project UUID is required", "project_uuid")
	}
	return projectUUID, nil
}
