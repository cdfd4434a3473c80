package filter

// Build translates params into a query. Each condition is only present when its parameter was
// supplied; the page size is always PageSize.
func Build(params Params) Query {
	where := Criteria{}

	if params.Category != "" && params.Category != CategoryAll {
		where.Conditions = append(where.Conditions, Equals{Field: FieldCategory, Value: params.Category})
	}
	if params.MinPrice != nil || params.MaxPrice != nil {
		where.Conditions = append(where.Conditions, Range{Field: FieldPrice, Min: params.MinPrice, Max: params.MaxPrice})
	}
	if params.Search != "" {
		where.Conditions = append(where.Conditions, Or{Conditions: []Condition{
			Contains{Field: FieldName, Value: params.Search},
			Contains{Field: FieldDescription, Value: params.Search},
		}})
	}
	if params.InStock {
		where.Conditions = append(where.Conditions, Equals{Field: FieldInStock, Value: true})
	}
	if params.Featured {
		where.Conditions = append(where.Conditions, Equals{Field: FieldFeatured, Value: true})
	}
	if len(params.Tags) > 0 {
		where.Conditions = append(where.Conditions, AnyOf{Field: FieldTag, Values: params.Tags})
	}

	page := params.Page
	if page < 1 {
		page = 1
	}

	return Query{
		Where: where,
		Sort:  ResolveSort(params.SortBy),
		Page:  page,
		Limit: PageSize,
	}
}
