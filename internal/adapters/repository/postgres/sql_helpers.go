package postgres

import (
	"database/sql"
	"strings"
)

const uniqueViolationCode = "23505"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike は LIKE のワイルドカードをエスケープし、キーワードを文字どおりに照合させます。
func escapeLike(keyword string) string {
	return likeEscaper.Replace(keyword)
}

// nullableText は空文字を NULL として保存します。
func nullableText(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableID(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func textOrEmpty(value sql.NullString) string {
	if !value.Valid {
		return ""
	}
	return value.String
}
