package dateutil

import (
	"strings"
	"time"
)

// 本包内所有日期统一锚定 UTC 日历日，对外以 yyyy-MM-dd 规范字符串表示。
// 日期比较一律基于规范字符串或 UTC 零点，避免时区导致的差一天问题。

// Layout 规范日期格式（yyyy-MM-dd）
const Layout = "2006-01-02"

// layoutDMY 表单常用的 dd-MM-yyyy 格式
const layoutDMY = "02-01-2006"

// fallbackLayouts 宽松解析的兜底格式（最后尝试）
var fallbackLayouts = []string{
	time.RFC1123,
	time.RFC822,
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseFlexibleDate 将输入解析为 UTC 日历日。
// 支持三类输入：time.Time、dd-MM-yyyy 字符串、ISO-8601 字符串；
// 其余字符串仅做一次兜底格式尝试，失败返回零值与 false。
func ParseFlexibleDate(input interface{}) (time.Time, bool) {
	switch v := input.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return truncateUTC(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return truncateUTC(*v), true
	case string:
		return parseString(v)
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation(layoutDMY, trimmed, time.UTC); err == nil {
		return t, true
	}

	// ISO-8601：先按完整时间戳解析，再按纯日期解析
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return truncateUTC(t), true
	}
	if t, err := time.ParseInLocation(Layout, trimmed, time.UTC); err == nil {
		return t, true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return truncateUTC(t), true
		}
	}

	return time.Time{}, false
}

// truncateUTC 将时间截断到 UTC 当日零点
func truncateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ToYMD 将任意可解析的日期输入渲染为规范 yyyy-MM-dd 字符串。
// 解析失败返回空串。
func ToYMD(input interface{}) string {
	t, ok := ParseFlexibleDate(input)
	if !ok {
		return ""
	}
	return t.Format(Layout)
}

// ParseYMD 严格解析规范 yyyy-MM-dd 字符串
func ParseYMD(ymd string) (time.Time, bool) {
	t, err := time.ParseInLocation(Layout, ymd, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddDays 对规范日期字符串做日历日加减（UTC 锚定，正确跨月/跨年/闰年）。
// 输入非法时返回空串。
func AddDays(ymd string, days int) string {
	t, ok := ParseYMD(ymd)
	if !ok {
		return ""
	}
	return t.AddDate(0, 0, days).Format(Layout)
}

// TodayYMD 返回今天的 UTC 日历日
func TodayYMD() string {
	return time.Now().UTC().Format(Layout)
}

// MonthStartYMD 返回指定偏移月份的月初（offset=0 当月，-1 上月，+1 下月）
func MonthStartYMD(now time.Time, offset int) string {
	u := now.UTC()
	return time.Date(u.Year(), u.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC).Format(Layout)
}

// YearStartYMD 返回指定偏移年份的年初
func YearStartYMD(now time.Time, offset int) string {
	u := now.UTC()
	return time.Date(u.Year()+offset, 1, 1, 0, 0, 0, 0, time.UTC).Format(Layout)
}
