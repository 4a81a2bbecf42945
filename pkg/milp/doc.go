// Package milp is a small mixed-integer linear model builder.
//
// A Model owns variables, linear constraints and an objective that is
// accumulated term by term and only summed when the model is finalised.
// Models are plain data: solver engines read them, and WriteLP renders
// them in CPLEX LP text for inspection or for external solvers.
package milp
