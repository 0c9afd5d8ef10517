package types

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// longDateFormat 某种语言的长日期格式
type longDateFormat struct {
	// months 小写月份名称，索引 0 = 一月
	months [12]string
	// pattern 参数顺序：日、月份名称、年
	pattern string
	// capitalize 月份名称是否首字母大写
	capitalize bool
}

// longDateFormats 按基础语言索引的长日期格式
var longDateFormats = map[language.Base]longDateFormat{
	mustBase("en"): {
		months:     [12]string{"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"},
		pattern:    "%[2]s %[1]d, %[3]d",
		capitalize: true,
	},
	mustBase("it"): {
		months:  [12]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
		pattern: "%[1]d %[2]s %[3]d",
	},
	mustBase("es"): {
		months:  [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		pattern: "%[1]d de %[2]s de %[3]d",
	},
	mustBase("fr"): {
		months:  [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		pattern: "%[1]d %[2]s %[3]d",
	},
	mustBase("de"): {
		months:     [12]string{"januar", "februar", "märz", "april", "mai", "juni", "juli", "august", "september", "oktober", "november", "dezember"},
		pattern:    "%[1]d. %[2]s %[3]d",
		capitalize: true,
	},
	mustBase("ro"): {
		months:  [12]string{"ianuarie", "februarie", "martie", "aprilie", "mai", "iunie", "iulie", "august", "septembrie", "octombrie", "noiembrie", "decembrie"},
		pattern: "%[1]d %[2]s %[3]d",
	},
}

// fallbackBase 不支持的语言回退到英语
var fallbackBase = mustBase("en")

func mustBase(s string) language.Base {
	return language.MustParseBase(s)
}

// longDate 按 locale 输出长格式日期，如 "2 gennaio 2006" / "January 2, 2006"
func longDate(t time.Time, loc language.Tag) string {
	base, _ := loc.Base()
	f, ok := longDateFormats[base]
	if !ok {
		base = fallbackBase
		f = longDateFormats[base]
	}

	month := f.months[t.Month()-1]
	if f.capitalize {
		month = cases.Title(language.Make(base.String())).String(month)
	}
	return fmt.Sprintf(f.pattern, t.Day(), month, t.Year())
}

// SupportedLocales 返回有长日期格式的语言
func SupportedLocales() []language.Tag {
	return []language.Tag{
		language.English, language.Italian, language.Spanish,
		language.French, language.German, language.Romanian,
	}
}
