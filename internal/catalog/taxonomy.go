package catalog

import "github.com/anthropics/bulkchange-engine/internal/domain"

var categories = []Category{
	{
		ID:   "employment",
		Name: "Employment & Role",
		Attributes: []domain.AttributeDef{
			{ID: "title", Name: "Job title", Type: domain.AttrText, Editable: true},
			{ID: "level", Name: "Level / band", Type: domain.AttrSelect, Options: Levels, Editable: true},
			{ID: "jobFamily", Name: "Job family / function", Type: domain.AttrSelect, Options: []string{"Engineering", "Product", "Design", "Sales", "Operations"}, Editable: true},
			{ID: "department", Name: "Department", Type: domain.AttrSelect, Options: []string{"Engineering", "Platform Engineering", "AI/ML", "Product", "Design", "Sales", "Marketing", "Customer Support", "HR", "Finance", "Legal", "Operations"}, Editable: true},
			{ID: "division", Name: "Division", Type: domain.AttrText, Editable: true},
			{ID: "businessUnit", Name: "Business unit", Type: domain.AttrText, Editable: true},
			{ID: "team", Name: "Team", Type: domain.AttrText, Editable: true},
			{ID: "costCenter", Name: "Cost center", Type: domain.AttrText, Editable: true},
			{ID: "employeeId", Name: "Employee ID / badge number", Type: domain.AttrText, Editable: false},
			{ID: "employmentType", Name: "Employment type", Type: domain.AttrSelect, Options: []string{"full-time", "part-time", "contractor", "intern", "temp"}, Editable: true},
			{ID: "employmentStatus", Name: "Employment status", Type: domain.AttrSelect, Options: []string{"active", "leave", "suspended"}, Editable: true},
			{ID: "workerType", Name: "Worker type", Type: domain.AttrSelect, Options: []string{"W-2", "1099"}, Editable: true},
			{ID: "startDate", Name: "Start date", Type: domain.AttrDate, Editable: false},
			{ID: "originalHireDate", Name: "Original hire date (for rehires)", Type: domain.AttrDate, Editable: false},
			{ID: "probationEndDate", Name: "Probation end date", Type: domain.AttrDate, Editable: true},
			{ID: "expectedEndDate", Name: "Expected end date (contractors/temps)", Type: domain.AttrDate, Editable: true},
			{ID: "jobDescription", Name: "Job description", Type: domain.AttrTextarea, Editable: true},
			{ID: "flsaStatus", Name: "FLSA status", Type: domain.AttrSelect, Options: []string{"exempt", "non-exempt"}, Editable: true},
			{ID: "unionMembership", Name: "Union membership", Type: domain.AttrText, Editable: true},
			{ID: "positionCode", Name: "Position code", Type: domain.AttrText, Editable: true},
		},
	},
	{
		ID:   "reporting",
		Name: "Reporting & Organization",
		Attributes: []domain.AttributeDef{
			{ID: "managerId", Name: "Direct manager", Type: domain.AttrEmployee, Editable: true},
			{ID: "dottedLineManager", Name: "Dotted-line manager", Type: domain.AttrEmployee, Editable: true},
			{ID: "skipLevelManager", Name: "Skip-level manager", Type: domain.AttrEmployee, Editable: false, Derived: true},
			{ID: "hrBusinessPartner", Name: "HR business partner", Type: domain.AttrEmployee, Editable: true},
			{ID: "executiveSponsor", Name: "Executive sponsor", Type: domain.AttrEmployee, Editable: true},
			{ID: "directReports", Name: "Direct reports", Type: domain.AttrEmployee, Editable: false, Derived: true},
		},
	},
	{
		ID:   "compensation",
		Name: "Compensation",
		Attributes: []domain.AttributeDef{
			{ID: "salary", Name: "Base salary", Type: domain.AttrCurrency, Editable: true},
			{ID: "hourlyRate", Name: "Pay rate (hourly)", Type: domain.AttrCurrency, Editable: true},
			{ID: "payFrequency", Name: "Pay frequency", Type: domain.AttrSelect, Options: []string{"weekly", "biweekly", "semi-monthly", "monthly"}, Editable: true},
			{ID: "currency", Name: "Pay currency", Type: domain.AttrSelect, Options: []string{"USD", "EUR", "GBP", "CAD"}, Editable: true},
			{ID: "bonusTarget", Name: "Target annual bonus", Type: domain.AttrCurrency, Editable: true},
			{ID: "bonusStructure", Name: "Bonus structure / plan", Type: domain.AttrText, Editable: true},
			{ID: "commissionPlan", Name: "Commission plan", Type: domain.AttrText, Editable: true},
			{ID: "commissionRate", Name: "Commission rate", Type: domain.AttrPercent, Editable: true},
			{ID: "equityShares", Name: "Equity stock options (grant count)", Type: domain.AttrNumber, Editable: true},
			{ID: "rsuGrants", Name: "Equity RSU grants", Type: domain.AttrNumber, Editable: true},
			{ID: "vestingSchedule", Name: "Equity vesting schedule", Type: domain.AttrText, Editable: true},
			{ID: "signOnBonus", Name: "Sign-on bonus", Type: domain.AttrCurrency, Editable: true},
			{ID: "retentionBonus", Name: "Retention bonus", Type: domain.AttrCurrency, Editable: true},
			{ID: "relocationAllowance", Name: "Relocation allowance", Type: domain.AttrCurrency, Editable: true},
			{ID: "stipend", Name: "Stipend (home office, wellness, education)", Type: domain.AttrCurrency, Editable: true},
			{ID: "totalTargetComp", Name: "Total target compensation", Type: domain.AttrCurrency, Editable: false, Derived: true},
			{ID: "compBandMin", Name: "Comp band minimum", Type: domain.AttrCurrency, Editable: false},
			{ID: "compBandMax", Name: "Comp band maximum", Type: domain.AttrCurrency, Editable: false},
			{ID: "compBandMid", Name: "Comp band midpoint", Type: domain.AttrCurrency, Editable: false},
			{ID: "compaRatio", Name: "Compa-ratio", Type: domain.AttrPercent, Editable: false, Derived: true},
		},
	},
	{
		ID:   "location",
		Name: "Location & Workplace",
		Attributes: []domain.AttributeDef{
			{ID: "location", Name: "Work location (office name)", Type: domain.AttrSelect, Options: []string{"San Francisco", "Austin", "New York", "Seattle", "Remote"}, Editable: true},
			{ID: "workAddress", Name: "Work address", Type: domain.AttrAddress, Editable: true},
			{ID: "city", Name: "City", Type: domain.AttrText, Editable: true},
			{ID: "state", Name: "State/Province", Type: domain.AttrText, Editable: true},
			{ID: "country", Name: "Country", Type: domain.AttrText, Editable: true},
			{ID: "taxJurisdictionState", Name: "Tax jurisdiction (state)", Type: domain.AttrText, Editable: false, Derived: true},
			{ID: "taxJurisdictionLocal", Name: "Tax jurisdiction (local)", Type: domain.AttrText, Editable: false, Derived: true},
			{ID: "taxJurisdictionCountry", Name: "Tax jurisdiction (country)", Type: domain.AttrText, Editable: false, Derived: true},
			{ID: "homeAddress", Name: "Home address", Type: domain.AttrAddress, Editable: true},
			{ID: "workArrangement", Name: "Work arrangement", Type: domain.AttrSelect, Options: []string{"onsite", "hybrid", "remote"}, Editable: true},
			{ID: "timezone", Name: "Time zone", Type: domain.AttrSelect, Options: []string{"America/Los_Angeles", "America/Chicago", "America/New_York", "America/Denver"}, Editable: true},
			{ID: "officeFloor", Name: "Default office floor / desk / zone", Type: domain.AttrText, Editable: true},
		},
	},
	{
		ID:   "schedule",
		Name: "Time & Schedule",
		Attributes: []domain.AttributeDef{
			{ID: "workSchedule", Name: "Work schedule", Type: domain.AttrText, Editable: true},
			{ID: "hoursPerWeek", Name: "Hours per week", Type: domain.AttrNumber, Editable: true},
			{ID: "shiftAssignment", Name: "Shift assignment", Type: domain.AttrText, Editable: true},
			{ID: "overtimeEligibility", Name: "Overtime eligibility", Type: domain.AttrBoolean, Editable: true},
			{ID: "ptoPolicy", Name: "PTO policy", Type: domain.AttrSelect, Options: []string{"Standard", "Unlimited", "Accrued"}, Editable: true},
			{ID: "sickLeavePolicy", Name: "Sick leave policy", Type: domain.AttrText, Editable: true},
			{ID: "holidayCalendar", Name: "Holiday calendar", Type: domain.AttrSelect, Options: []string{"US Standard", "US + Floating", "Global"}, Editable: true},
			{ID: "timeOffAccrualRate", Name: "Time-off accrual rate", Type: domain.AttrNumber, Editable: true},
		},
	},
	{
		ID:   "personal",
		Name: "Personal & Identity",
		Attributes: []domain.AttributeDef{
			{ID: "firstName", Name: "Legal first name", Type: domain.AttrText, Editable: true},
			{ID: "lastName", Name: "Legal last name", Type: domain.AttrText, Editable: true},
			{ID: "preferredName", Name: "Preferred first name (display name)", Type: domain.AttrText, Editable: true},
			{ID: "pronouns", Name: "Preferred pronouns", Type: domain.AttrSelect, Options: []string{"he/him", "she/her", "they/them", "other"}, Editable: true},
			{ID: "dateOfBirth", Name: "Date of birth", Type: domain.AttrDate, Editable: true, Sensitive: true},
			{ID: "gender", Name: "Gender", Type: domain.AttrSelect, Options: []string{"Male", "Female", "Non-binary", "Prefer not to say"}, Editable: true},
			{ID: "ethnicity", Name: "Ethnicity (voluntary self-ID, EEO)", Type: domain.AttrText, Editable: true},
			{ID: "veteranStatus", Name: "Veteran status (voluntary self-ID)", Type: domain.AttrBoolean, Editable: true},
			{ID: "disabilityStatus", Name: "Disability status (voluntary self-ID)", Type: domain.AttrBoolean, Editable: true},
			{ID: "maritalStatus", Name: "Marital status", Type: domain.AttrSelect, Options: []string{"Single", "Married", "Domestic Partnership", "Divorced", "Widowed"}, Editable: true},
			{ID: "ssn", Name: "SSN / national ID", Type: domain.AttrText, Editable: true, Sensitive: true},
			{ID: "citizenship", Name: "Citizenship", Type: domain.AttrText, Editable: true},
			{ID: "visaType", Name: "Work authorization type (visa type)", Type: domain.AttrSelect, Options: []string{"H-1B", "L-1", "O-1", "TN", "Green Card", "Citizen"}, Editable: true},
			{ID: "visaExpiry", Name: "Work authorization expiry date", Type: domain.AttrDate, Editable: true},
			{ID: "emergencyContactName", Name: "Emergency contact name", Type: domain.AttrText, Editable: true},
			{ID: "emergencyContactPhone", Name: "Emergency contact phone", Type: domain.AttrPhone, Editable: true},
			{ID: "emergencyContactRelationship", Name: "Emergency contact relationship", Type: domain.AttrText, Editable: true},
			{ID: "personalEmail", Name: "Personal email", Type: domain.AttrEmail, Editable: true},
			{ID: "personalPhone", Name: "Personal phone", Type: domain.AttrPhone, Editable: true},
		},
	},
	{
		ID:   "contact",
		Name: "Work Contact & Access",
		Attributes: []domain.AttributeDef{
			{ID: "email", Name: "Work email", Type: domain.AttrEmail, Editable: true},
			{ID: "workPhone", Name: "Work phone", Type: domain.AttrPhone, Editable: true},
			{ID: "workMobile", Name: "Work mobile", Type: domain.AttrPhone, Editable: true},
			{ID: "slackHandle", Name: "Slack handle / ID", Type: domain.AttrText, Editable: true},
			{ID: "githubUsername", Name: "GitHub username", Type: domain.AttrText, Editable: true},
			{ID: "googleWorkspace", Name: "Google Workspace account", Type: domain.AttrEmail, Editable: true},
			{ID: "microsoft365", Name: "Microsoft 365 account", Type: domain.AttrEmail, Editable: true},
			{ID: "badgeId", Name: "Badge / keycard ID", Type: domain.AttrText, Editable: true},
			{ID: "vpnAccessGroup", Name: "VPN access group", Type: domain.AttrText, Editable: true},
			{ID: "buildingAccessGroup", Name: "Building access group", Type: domain.AttrText, Editable: true},
		},
	},
	{
		ID:   "devices",
		Name: "IT & Devices",
		Attributes: []domain.AttributeDef{
			{ID: "assignedLaptop", Name: "Assigned laptop (asset tag)", Type: domain.AttrText, Editable: true},
			{ID: "assignedMobile", Name: "Assigned mobile device (asset tag)", Type: domain.AttrText, Editable: true},
			{ID: "assignedMonitors", Name: "Assigned monitor(s)", Type: domain.AttrText, Editable: true},
			{ID: "softwareLicenseGroup", Name: "Software license group", Type: domain.AttrText, Editable: true},
			{ID: "securityClearanceLevel", Name: "Security clearance level", Type: domain.AttrSelect, Options: []string{"None", "Confidential", "Secret", "Top Secret"}, Editable: true},
			{ID: "mfaEnrollmentStatus", Name: "MFA enrollment status", Type: domain.AttrBoolean, Editable: false},
			{ID: "deviceManagementPolicy", Name: "Device management policy group", Type: domain.AttrText, Editable: true},
		},
	},
	{
		ID:   "benefits",
		Name: "Benefits & Payroll",
		Attributes: []domain.AttributeDef{
			{ID: "benefitsEligibilityGroup", Name: "Benefits eligibility group", Type: domain.AttrSelect, Options: []string{"salaried", "hourly", "contractor", "intern"}, Editable: true},
			{ID: "medicalPlan", Name: "Medical plan", Type: domain.AttrSelect, Options: []string{"PPO Gold", "PPO Silver", "HMO", "HDHP", "None"}, Editable: true},
			{ID: "dentalPlan", Name: "Dental plan", Type: domain.AttrSelect, Options: []string{"Basic", "Premium", "None"}, Editable: true},
			{ID: "visionPlan", Name: "Vision plan", Type: domain.AttrSelect, Options: []string{"Basic", "Premium", "None"}, Editable: true},
			{ID: "lifePlan", Name: "Life insurance plan", Type: domain.AttrSelect, Options: []string{"1x Salary", "2x Salary", "None"}, Editable: true},
			{ID: "retirementPlan", Name: "401(k) / retirement plan", Type: domain.AttrSelect, Options: []string{"Traditional 401(k)", "Roth 401(k)", "None"}, Editable: true},
			{ID: "retirementContribution", Name: "401(k) contribution % (employee)", Type: domain.AttrPercent, Editable: true},
			{ID: "fsaHsa", Name: "FSA / HSA enrollment", Type: domain.AttrSelect, Options: []string{"FSA", "HSA", "None"}, Editable: true},
			{ID: "commuterBenefits", Name: "Commuter benefits", Type: domain.AttrBoolean, Editable: true},
			{ID: "bankAccount", Name: "Bank account (direct deposit)", Type: domain.AttrText, Editable: true, Sensitive: true},
			{ID: "taxFilingFederal", Name: "Tax filing status (federal)", Type: domain.AttrSelect, Options: []string{"Single", "Married Filing Jointly", "Married Filing Separately", "Head of Household"}, Editable: true},
			{ID: "taxFilingState", Name: "Tax filing status (state)", Type: domain.AttrText, Editable: true},
			{ID: "w4Allowances", Name: "W-4 allowances / withholding", Type: domain.AttrNumber, Editable: true},
			{ID: "stateWithholding", Name: "State tax withholding", Type: domain.AttrCurrency, Editable: true},
		},
	},
	{
		ID:   "custom",
		Name: "Custom & Company-Specific",
		Attributes: []domain.AttributeDef{
			{ID: "customField1", Name: "Custom field 1", Type: domain.AttrText, Editable: true},
			{ID: "customField2", Name: "Custom field 2", Type: domain.AttrText, Editable: true},
			{ID: "customField3", Name: "Custom field 3", Type: domain.AttrText, Editable: true},
			{ID: "tags", Name: "Tags / labels", Type: domain.AttrTags, Editable: true},
			{ID: "notes", Name: "Notes (free text)", Type: domain.AttrTextarea, Editable: true},
			{ID: "groupMemberships", Name: "Employee group memberships", Type: domain.AttrTags, Editable: true},
		},
	},
}

var commonActions = []ActionTemplate{
	{
		Type:        domain.ActionUpdateCompensation,
		Name:        "Update Compensation",
		Description: "Annual review raises, bonus adjustments, equity grants",
		Attributes:  []string{"salary", "hourlyRate", "bonusTarget", "equityShares", "payFrequency", "currency"},
	},
	{
		Type:        domain.ActionChangeDepartment,
		Name:        "Change Department",
		Description: "Reorg, team restructure",
		Attributes:  []string{"department", "costCenter", "team"},
	},
	{
		Type:        domain.ActionChangeManager,
		Name:        "Change Manager",
		Description: "Reporting structure changes",
		Attributes:  []string{"managerId", "dottedLineManager"},
	},
	{
		Type:              domain.ActionReassignLocation,
		Name:              "Reassign Office / Location",
		Description:       "Office move, consolidation, remote transition",
		Attributes:        []string{"location", "workAddress", "city", "state", "workArrangement", "timezone"},
		DerivedAttributes: []string{"taxJurisdictionState", "taxJurisdictionLocal"},
	},
	{
		Type:        domain.ActionUpdateTitleLevel,
		Name:        "Update Title & Level",
		Description: "Promotions, title changes",
		Attributes:  []string{"title", "level", "jobFamily"},
	},
	{
		Type:        domain.ActionChangeTeam,
		Name:        "Change Team",
		Description: "Team restructure",
		Attributes:  []string{"team"},
	},
	{
		Type:        domain.ActionUpdateSchedule,
		Name:        "Update Work Schedule",
		Description: "Employment type changes, hours, shifts",
		Attributes:  []string{"employmentType", "hoursPerWeek", "shiftAssignment", "workArrangement", "workSchedule"},
	},
}
