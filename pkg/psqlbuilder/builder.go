package psqlbuilder

import sq "github.com/Masterminds/squirrel"

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Select начинает SELECT с плейсхолдерами $1, $2, ...
func Select(columns ...string) sq.SelectBuilder {
	return builder.Select(columns...)
}

// Insert начинает INSERT в таблицу
func Insert(table string) sq.InsertBuilder {
	return builder.Insert(table)
}

// Update начинает UPDATE таблицы
func Update(table string) sq.UpdateBuilder {
	return builder.Update(table)
}

// Delete начинает DELETE из таблицы
func Delete(table string) sq.DeleteBuilder {
	return builder.Delete(table)
}
