package mapdoc

import "github.com/custodia-labs/mapstore/internal/core/domain"

// inferredCategory returns the lowest category able to hold the content.
func (d *Document) inferredCategory() domain.Category {
	policy := d.settings.Category
	for _, name := range policy.GroupInfoNames {
		if d.info.HasContent(name) {
			return domain.CategoryGroup
		}
	}
	for _, name := range policy.ExtendedInfoNames {
		if d.info.HasContent(name) {
			return domain.CategoryExtended
		}
	}
	if policy.ArgDescToken != "" && d.info.ContainsFirstArg(policy.ArgDescToken) {
		return domain.CategoryExtended
	}
	if !d.HasDefaultSources() {
		return domain.CategoryMultiSource
	}
	return domain.Category2D
}

// InferCategory upgrades the document category to fit its content and
// returns it. The category never goes down.
func (d *Document) InferCategory() domain.Category {
	d.category = domain.MaxCategory(d.category, d.inferredCategory())
	return d.category
}
