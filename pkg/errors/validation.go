package errors

import (
	"strings"
	"unicode"
)

// MaxKeyLength is the longest accepted comparison key or item id, in bytes.
const MaxKeyLength = 256

// ValidateKey validates a comparison key before it reaches a storage backend.
// Keys end up in file names, SQL rows, Redis keys and Mongo ids, so the rules
// are conservative:
//   - No empty keys
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "comparison key cannot be empty")
	}
	if len(key) > MaxKeyLength {
		return New(ErrCodeInvalidKey, "comparison key too long (max %d bytes)", MaxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "comparison key contains invalid control characters")
		}
	}
	return nil
}

// ValidateItemID validates a scenario identifier.
// Item ids are joined with commas to build the item-set signature, so a comma
// inside an id would make two different sets collide.
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}
	if len(id) > MaxKeyLength {
		return New(ErrCodeInvalidItem, "item id too long (max %d bytes)", MaxKeyLength)
	}
	if strings.Contains(id, ",") {
		return New(ErrCodeInvalidItem, "item id cannot contain ',': %q", id)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "item id contains invalid control characters")
		}
	}
	return nil
}
