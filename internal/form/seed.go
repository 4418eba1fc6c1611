package form

// Form IDs used by the production-planning cascade.
const (
	FormProductionPlan  = "F-PRODUCTION-PLAN-ENTRY"
	FormDailyProduction = "F-DAILY-PRODUCTION-ENTRY"
	FormActionPlan      = "F-ACTION-PLAN"
)

// SeedSchemas returns the built-in production-planning form schemas.
// Field roles drive propagation: plan fields copy read-only into the
// downstream task, actual fields start empty there.
func SeedSchemas() []Schema {
	return []Schema{
		{
			FormID: FormProductionPlan,
			Name:   "Production Plan Entry",
			Fields: []Field{
				{Name: "month_start_date", Label: "Month Start Date", Kind: KindDate, Required: true, Role: RoleIdentity},
				{Name: "week_number", Label: "Week Number", Kind: KindNumber, Role: RoleIdentity},
				{Name: "week_dates", Label: "Week Dates", Kind: KindText, Role: RoleIdentity},
			},
			TableFields: []Field{
				{Name: "item_name", Label: "Item", Kind: KindText, Required: true, Role: RoleIdentity},
				{Name: "customer_name", Label: "Customer", Kind: KindText, Role: RoleIdentity},
				{Name: "monthly_qty", Label: "Monthly Qty", Kind: KindNumber, Required: true, Role: RolePlan},
				{Name: "weekly_qty", Label: "Weekly Qty", Kind: KindNumber, Role: RoleActual},
			},
		},
		{
			FormID: FormDailyProduction,
			Name:   "Daily Production Entry",
			Fields: []Field{
				{Name: "date", Label: "Date", Kind: KindDate, Role: RoleIdentity},
			},
			TableFields: []Field{
				{Name: "dept_name", Label: "Department", Kind: KindText, Role: RoleIdentity},
				{Name: "operator_name", Label: "Operator", Kind: KindText, Role: RoleIdentity},
				{Name: "work", Label: "Work", Kind: KindText, Role: RoleIdentity},
				{Name: "h1_plan", Label: "H1 Plan", Kind: KindNumber, Role: RolePlan},
				{Name: "h2_plan", Label: "H2 Plan", Kind: KindNumber, Role: RolePlan},
				{Name: "ot_plan", Label: "OT Plan", Kind: KindNumber, Role: RolePlan},
				{Name: "target_qty", Label: "Target Qty", Kind: KindNumber, Role: RolePlan},
				{Name: "h1_actual", Label: "H1 Actual", Kind: KindNumber, Role: RoleActual},
				{Name: "h2_actual", Label: "H2 Actual", Kind: KindNumber, Role: RoleActual},
				{Name: "ot_actual", Label: "OT Actual", Kind: KindNumber, Role: RoleActual},
				{Name: "actual_production", Label: "Actual Production", Kind: KindNumber, Role: RoleActual},
				{Name: "quality_defects", Label: "Quality Defects", Kind: KindNumber, Role: RoleActual},
				{Name: "defect_details", Label: "Defect Details", Kind: KindText, Role: RoleActual},
				{Name: "responsible_person", Label: "Responsible Person", Kind: KindText, Role: RoleActual},
				{Name: "production_percentage", Label: "Production %", Kind: KindNumber, Role: RoleActual},
				{Name: "reason", Label: "Reason", Kind: KindText, Role: RoleActual},
				{Name: "rework", Label: "Rework", Kind: KindText, Role: RoleActual},
			},
		},
		{
			FormID: FormActionPlan,
			Name:   "Action Plan",
			Fields: []Field{
				{Name: "date", Label: "Date", Kind: KindDate, Role: RoleIdentity},
			},
			TableFields: []Field{
				{Name: "department", Label: "Department", Kind: KindText, Role: RoleIdentity},
				{Name: "operator_name", Label: "Operator", Kind: KindText, Role: RoleIdentity},
				{Name: "work_description", Label: "Work Description", Kind: KindText, Role: RoleIdentity},
				{Name: "target_qty", Label: "Target Qty", Kind: KindNumber, Role: RolePlan},
				{Name: "actual_production", Label: "Actual Production", Kind: KindNumber, Role: RolePlan},
				{Name: "achievement_percentage", Label: "Achievement %", Kind: KindNumber, Role: RolePlan},
				{Name: "reason_for_low_production", Label: "Reason for Low Production", Kind: KindText, Required: true, Role: RoleActual},
				{Name: "corrective_actions", Label: "Corrective Actions", Kind: KindText, Required: true, Role: RoleActual},
				{Name: "responsible_person", Label: "Responsible Person", Kind: KindText, Role: RoleActual},
				{Name: "target_completion_date", Label: "Target Completion Date", Kind: KindDate, Role: RoleActual},
			},
		},
	}
}
