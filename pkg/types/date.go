package types

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/text/language"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

// isoDateLayout ISO 日期格式 yyyy-MM-dd
const isoDateLayout = "2006-01-02"

// isoDateRegex 严格的 ISO 日期格式；通过后还需是真实的日历日期
var isoDateRegex = regexp.MustCompile(`^\d{4}-(1[0-2]|0[1-9])-(3[0-1]|[1-2]\d|0[1-9])$`)

// Date 日期标量，文本形式为 yyyy-MM-dd
// 存储的值总是 UTC 零点，时间部分被丢弃
type Date struct {
	scalar[time.Time, dateCodec]
}

// NewDate 创建未赋值的日期标量
func NewDate(opts ...Option) *Date {
	return &Date{scalar: newScalar[time.Time, dateCodec](opts)}
}

type dateCodec struct{}

func (dateCodec) typeName() string { return "Date" }

func (dateCodec) parse(text string) (time.Time, error) {
	if !isoDateRegex.MatchString(text) {
		return time.Time{}, fmt.Errorf("%w: Date text '%s' does not match yyyy-MM-dd", core.ErrInvalidArgument, text)
	}
	// 正则允许 2023-02-30 之类的文本，由 time.Parse 拒绝
	t, err := time.Parse(isoDateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: Date text '%s' is not a calendar date: %w", core.ErrInvalidArgument, text, err)
	}
	return t, nil
}

func (dateCodec) format(v time.Time) string {
	return v.Format(isoDateLayout)
}

func (dateCodec) check(v time.Time) error {
	if y := v.Year(); y < 0 || y > 9999 {
		return fmt.Errorf("%w: Date year %d outside 0000-9999", core.ErrInvalidArgument, y)
	}
	return nil
}

// clone 归一化为 UTC 零点
func (dateCodec) clone(v time.Time) time.Time {
	y, m, d := v.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (dateCodec) display(v time.Time, loc language.Tag) string {
	return longDate(v, loc)
}
