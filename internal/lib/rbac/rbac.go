// Package rbac реализует проверку прав по роли пользователя.
//
// Allowed — чистая функция без ввода-вывода: каждая точка вызова
// передаёт свой явный набор допустимых ролей.
package rbac

import "github.com/magabrotheeeer/trader-hub/internal/models"

// Allowed сообщает, входит ли роль пользователя в набор допустимых.
// Пустой набор не пропускает никого.
func Allowed(role models.Role, allowed ...models.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
