package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stivlo/obliquid-lib-sub001/pkg/fiscal/core"
)

// jsonCodec 需要自定义 JSON 表示的变体实现此接口
type jsonCodec[T any] interface {
	toJSON(v T) any
	fromJSON(data []byte) (T, error)
}

// driverCodec 需要非文本数据库表示的变体实现此接口
type driverCodec[T any] interface {
	toDriver(v T) driver.Value
	fromDriver(src any) (T, bool)
}

var jsonNull = []byte("null")

// MarshalJSON 实现 json.Marshaler 接口，未赋值时输出 null
func (s *scalar[T, C]) MarshalJSON() ([]byte, error) {
	if !s.assigned {
		return jsonNull, nil
	}
	if jc, ok := any(s.codec()).(jsonCodec[T]); ok {
		return json.Marshal(jc.toJSON(s.value))
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON 实现 json.Unmarshaler 接口
// null 只能用于未赋值的值；不能通过 null 清除已赋值的值
// 注意：指针字段遇到 null 时 encoding/json 直接把指针置为 nil，不会调用本方法，
// 需要拒绝 null 的字段应声明为值类型（如 Name types.String）
func (s *scalar[T, C]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return s.setNull()
	}

	var (
		v   T
		err error
	)
	if jc, ok := any(s.codec()).(jsonCodec[T]); ok {
		v, err = jc.fromJSON(data)
	} else if uerr := json.Unmarshal(data, &v); uerr != nil {
		err = fmt.Errorf("%w: %s JSON: %w", core.ErrInvalidArgument, s.codec().typeName(), uerr)
	}
	if err != nil {
		return s.fail(err)
	}
	return s.Set(v)
}

// Value 实现 driver.Valuer 接口，未赋值时存储 NULL
func (s *scalar[T, C]) Value() (driver.Value, error) {
	if !s.assigned {
		return nil, nil
	}
	if dc, ok := any(s.codec()).(driverCodec[T]); ok {
		return dc.toDriver(s.value), nil
	}
	return s.codec().format(s.value), nil
}

// Scan 实现 sql.Scanner 接口
func (s *scalar[T, C]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return s.setNull()
	case string:
		return s.SetText(v)
	case []byte:
		return s.SetText(string(v))
	}

	if dc, ok := any(s.codec()).(driverCodec[T]); ok {
		if v, ok := dc.fromDriver(src); ok {
			return s.Set(v)
		}
	}
	return s.fail(fmt.Errorf("%w: cannot scan %T into %s", core.ErrInvalidArgument, src, s.codec().typeName()))
}

// setNull 处理 JSON null / SQL NULL
func (s *scalar[T, C]) setNull() error {
	if !s.assigned {
		return nil
	}
	return s.fail(fmt.Errorf("%w: cannot assign null to %s", core.ErrInvalidArgument, s.codec().typeName()))
}

func (booleanCodec) toDriver(v bool) driver.Value { return v }

func (booleanCodec) fromDriver(src any) (bool, bool) {
	v, ok := src.(bool)
	return v, ok
}

func (integerCodec) toDriver(v int64) driver.Value { return v }

func (integerCodec) fromDriver(src any) (int64, bool) {
	switch v := src.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	default:
		return 0, false
	}
}

func (dateCodec) toDriver(v time.Time) driver.Value { return v }

func (dateCodec) fromDriver(src any) (time.Time, bool) {
	v, ok := src.(time.Time)
	return v, ok
}

func (c dateCodec) toJSON(v time.Time) any { return c.format(v) }

func (c dateCodec) fromJSON(data []byte) (time.Time, error) {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return time.Time{}, fmt.Errorf("%w: Date JSON must be a string: %w", core.ErrInvalidArgument, err)
	}
	return c.parse(text)
}
