package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Temp id prefixes per entity created offline.
const (
	TempPrefixRental   = "rental"
	TempPrefixCustomer = "customer"
)

var tempIDPattern = regexp.MustCompile(`^(rental|customer)_[0-9]{10,}_[0-9a-f]{9}$`)

// NewTempID генерирует временный идентификатор вида <prefix>_<unix-millis>_<rand>.
func NewTempID(prefix string) string {
	return newTempIDAt(prefix, time.Now())
}

func newTempIDAt(prefix string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), random)
}

// IsTempID reports whether id was generated by NewTempID.
func IsTempID(id string) bool {
	return tempIDPattern.MatchString(id)
}
