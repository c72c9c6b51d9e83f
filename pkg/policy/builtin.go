package policy

// BuiltinPolicies returns the advice rules primer ships with.
func BuiltinPolicies() []Policy {
	return []Policy{
		nextLessonPolicy(),
		stuckPolicy(),
		regressedPolicy(),
		trackOrderPolicy(),
		prerequisitesPolicy(),
	}
}

// nextLessonPolicy points at the first lesson never attempted.
func nextLessonPolicy() Policy {
	return Policy{
		Name:        "next-lesson",
		Description: "Suggests the first lesson without any attempt",
		Severity:    SeverityInfo,
		Enabled:     true,
		Rego: `package primer.advice.next

import rego.v1

advice contains a if {
	idx := min({i | some i; input.lessons[i].attempts == 0})
	lesson := input.lessons[idx]
	a := {
		"lesson": lesson.id,
		"message": sprintf("Next up: %s (primer run %s)", [lesson.title, lesson.id]),
	}
}
`,
	}
}

// stuckPolicy flags lessons attempted several times without a pass.
func stuckPolicy() Policy {
	return Policy{
		Name:        "stuck",
		Description: "Flags lessons with three or more attempts and no pass",
		Severity:    SeverityWarning,
		Enabled:     true,
		Rego: `package primer.advice.stuck

import rego.v1

advice contains a if {
	some lesson in input.lessons
	lesson.attempts >= 3
	lesson.passes == 0
	a := {
		"lesson": lesson.id,
		"message": sprintf("%s has %d attempts and no pass; compare with the reference output of primer run %s", [lesson.id, lesson.attempts, lesson.id]),
	}
}
`,
	}
}

// regressedPolicy flags lessons whose latest attempt failed after an
// earlier pass.
func regressedPolicy() Policy {
	return Policy{
		Name:        "regressed",
		Description: "Flags lessons that passed before but failed last time",
		Severity:    SeverityWarning,
		Enabled:     true,
		Rego: `package primer.advice.regressed

import rego.v1

advice contains a if {
	some lesson in input.lessons
	lesson.passes > 0
	lesson.attempts > lesson.passes
	not lesson.last_passed
	a := {
		"lesson": lesson.id,
		"message": sprintf("%s passed before but the last attempt failed", [lesson.id]),
	}
}
`,
	}
}

// trackOrderPolicy suggests finishing the python challenges before the C
// track.
func trackOrderPolicy() Policy {
	return Policy{
		Name:        "track-order",
		Description: "Suggests passing the python challenges before starting the c track",
		Severity:    SeverityInfo,
		Enabled:     true,
		Rego: `package primer.advice.order

import rego.v1

open_challenges contains lesson.id if {
	some lesson in input.lessons
	lesson.track == "python"
	lesson.kind == "challenge"
	lesson.passes == 0
}

started_c if {
	some lesson in input.lessons
	lesson.track == "c"
	lesson.attempts > 0
}

advice contains a if {
	started_c
	count(open_challenges) > 0
	a := {
		"message": sprintf("The c track builds on the python challenges; still open: %s", [concat(", ", sort(open_challenges))]),
	}
}
`,
	}
}

// prerequisitesPolicy points failing lessons back at prerequisites that
// have not been passed yet.
func prerequisitesPolicy() Policy {
	return Policy{
		Name:        "prerequisites",
		Description: "Points failing lessons at their unpassed prerequisites",
		Severity:    SeverityInfo,
		Enabled:     true,
		Rego: `package primer.advice.prerequisites

import rego.v1

passed contains lesson.id if {
	some lesson in input.lessons
	lesson.passes > 0
}

advice contains a if {
	some lesson in input.lessons
	lesson.attempts > 0
	lesson.passes == 0
	missing := {req | some req in lesson.requires; not passed[req]}
	count(missing) > 0
	a := {
		"lesson": lesson.id,
		"message": sprintf("%s builds on %s; pass those first", [lesson.id, concat(", ", sort(missing))]),
	}
}
`,
	}
}
