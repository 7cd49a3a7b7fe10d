package rbac

const (
	RoleAdmin = "admin"
	RoleGuest = "guest"

	PermQuestionRead   = "question:read"
	PermQuestionWrite  = "question:write"
	PermQuestionImport = "question:import"
	PermExamTake       = "exam:take"
)

// RolePermissions is the default policy. Anyone can browse questions and sit
// exams; changing the bank needs the admin role.
var RolePermissions = map[string][]string{
	RoleGuest: {
		PermQuestionRead,
		PermExamTake,
	},
	RoleAdmin: {
		"*",
	},
}
