// Package dataset maps uploaded sheets onto the canonical client, worker and
// task schemas and provides the loose-typing helpers every engine shares.
package dataset

import "data-workers/internal/models"

// Field is a canonical column and the header spellings that map onto it.
type Field struct {
	Name    string
	Aliases []string
}

// Schema is the ordered canonical field list of one entity kind.
type Schema struct {
	Kind     models.EntityKind
	Fields   []Field
	Required []string
	IDField  string
}

var contactFields = []Field{
	{Name: "email", Aliases: []string{"email", "e-mail", "email address", "mail", "contact email"}},
	{Name: "phone", Aliases: []string{"phone", "phone number", "telephone", "mobile", "contact phone"}},
}

var schemas = map[models.EntityKind]Schema{
	models.KindClient: {
		Kind:    models.KindClient,
		IDField: "clientId",
		Fields: append([]Field{
			{Name: "clientId", Aliases: []string{"clientId", "client id", "client_id", "id"}},
			{Name: "clientName", Aliases: []string{"clientName", "client name", "name", "company"}},
			{Name: "priorityLevel", Aliases: []string{"priorityLevel", "priority level", "priority"}},
			{Name: "requestedTaskIds", Aliases: []string{"requestedTaskIds", "requested task ids", "requested tasks", "task ids", "tasks"}},
			{Name: "groupTag", Aliases: []string{"groupTag", "group tag", "client group", "group"}},
			{Name: "attributesJson", Aliases: []string{"attributesJson", "attributes json", "attributes", "metadata"}},
		}, contactFields...),
		Required: []string{"clientId", "clientName", "priorityLevel", "requestedTaskIds"},
	},
	models.KindWorker: {
		Kind:    models.KindWorker,
		IDField: "workerId",
		Fields: append([]Field{
			{Name: "workerId", Aliases: []string{"workerId", "worker id", "employee id", "id"}},
			{Name: "workerName", Aliases: []string{"workerName", "worker name", "employee name", "name"}},
			{Name: "skills", Aliases: []string{"skills", "skill set", "skillset", "capabilities"}},
			{Name: "availableSlots", Aliases: []string{"availableSlots", "available slots", "available phases", "availability", "slots"}},
			{Name: "maxLoadPerPhase", Aliases: []string{"maxLoadPerPhase", "max load per phase", "max load", "capacity"}},
			{Name: "workerGroup", Aliases: []string{"workerGroup", "worker group", "team", "group"}},
			{Name: "qualificationLevel", Aliases: []string{"qualificationLevel", "qualification level", "qualification", "seniority", "level"}},
			{Name: "role", Aliases: []string{"role", "position", "job title"}},
		}, contactFields...),
		Required: []string{"workerId", "workerName", "skills", "availableSlots", "maxLoadPerPhase"},
	},
	models.KindTask: {
		Kind:    models.KindTask,
		IDField: "taskId",
		Fields: []Field{
			{Name: "taskId", Aliases: []string{"taskId", "task id", "id"}},
			{Name: "taskName", Aliases: []string{"taskName", "task name", "title", "name"}},
			{Name: "category", Aliases: []string{"category", "task type", "type"}},
			{Name: "duration", Aliases: []string{"duration", "estimated duration", "length"}},
			{Name: "requiredSkills", Aliases: []string{"requiredSkills", "required skills", "skills required", "skills"}},
			{Name: "preferredPhases", Aliases: []string{"preferredPhases", "preferred phases", "phase window", "phases"}},
			{Name: "maxConcurrent", Aliases: []string{"maxConcurrent", "max concurrent", "max parallel", "concurrency"}},
			{Name: "priority", Aliases: []string{"priority", "task priority"}},
		},
		Required: []string{"taskId", "taskName", "duration", "requiredSkills", "preferredPhases", "maxConcurrent"},
	},
}

// SchemaFor returns the canonical schema of kind.
func SchemaFor(kind models.EntityKind) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

// RequiredFields lists the columns a sheet of kind must carry.
func RequiredFields(kind models.EntityKind) []string {
	return append([]string(nil), schemas[kind].Required...)
}

// IDField is the identifier column of kind.
func IDField(kind models.EntityKind) string {
	return schemas[kind].IDField
}
