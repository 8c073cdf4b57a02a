package config

import strutil "patentdesk/pkg/platform/strings"

func splitList(v string) []string {
	return strutil.SplitAndTrim(v, ",")
}
