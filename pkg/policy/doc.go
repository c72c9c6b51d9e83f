// Package policy turns attempt history into advice using Rego.
//
// Each policy is a Rego module whose package defines an `advice` set. The
// engine evaluates `data.<package>.advice` against an Input listing every
// lesson in course order with its attempts, passes and last result.
// Elements of the set are strings or objects:
//
//	package primer.advice.stuck
//
//	import rego.v1
//
//	advice contains a if {
//		some lesson in input.lessons
//		lesson.attempts >= 3
//		lesson.passes == 0
//		a := {"lesson": lesson.id, "message": "try the reference first"}
//	}
//
// Built-in policies suggest the next lesson, flag lessons a learner is
// stuck on or has regressed on, and nudge learners to finish the python
// challenges before the c track. Extra .rego files are loaded from the
// paths in the policy section of primer.yaml.
package policy
