package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList 순서가 있는 문자열 목록 (postgres text[])
// nil 대신 항상 빈 배열로 직렬화된다.
type StringList []string

func (StringList) GormDataType() string {
	return "text_list"
}

func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	return pq.StringArray(s).Value()
}

func (s *StringList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		arr = pq.StringArray{}
	}
	*s = StringList(arr)
	return nil
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// MovieIDList 영화 ID 목록 (postgres bigint[])
type MovieIDList []int64

func (MovieIDList) GormDataType() string {
	return "movie_id_list"
}

func (MovieIDList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "bigint[]"
	}
	return "text"
}

func (l MovieIDList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	return pq.Int64Array(l).Value()
}

func (l *MovieIDList) Scan(src interface{}) error {
	var arr pq.Int64Array
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		arr = pq.Int64Array{}
	}
	*l = MovieIDList(arr)
	return nil
}

func (l MovieIDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int64(l))
}
