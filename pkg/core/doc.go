// Package core provides resource usage analysis for solved production plans.
//
// Given a problem and the quantity planned for each product, AnalyzeUsage computes,
// per resource, how much is consumed, how much is left (slack) and how close the
// resource is to being exhausted:
//
//	usage, err := core.AnalyzeUsage(problem, map[string]float64{"Lemonade": 30, "Fruit_Juice": 20})
//	if err != nil {
//	    return err
//	}
//	for _, u := range usage {
//	    fmt.Printf("%s: %.0f/%.0f (%s)\n", u.Name, u.Used, u.Available, u.Level())
//	}
//	limiting := core.LimitingResources(usage)
//
// The package holds no state and is independent of any solver.
package core
