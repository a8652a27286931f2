package scheduler

import "sort"

// SortByDeadline orders plans by the canonical rules:
// 1. Products with placed but unfinished machine steps first
// 2. Deadline: earliest first
// 3. Product ID: ascending
func SortByDeadline(plans []*productPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i], plans[j]

		if a.inProgress() != b.inProgress() {
			return a.inProgress()
		}
		if !a.deadline.Equal(b.deadline) {
			return a.deadline.Before(b.deadline)
		}
		return a.demand.Product.ID < b.demand.Product.ID
	})
}
