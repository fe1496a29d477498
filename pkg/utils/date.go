package utils

import (
	"time"
)

func ConvertUnixMilliToHumanReadableFormat(datetime int64) string {
	t := time.UnixMilli(datetime)
	location := time.FixedZone("WIB", 7*60*60)
	wibTime := t.In(location)
	outputFormat := "02 January 2006, 15:04 WIB"

	return wibTime.Format(outputFormat)
}
