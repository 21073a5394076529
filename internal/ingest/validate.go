package ingest

import (
	"fmt"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// ValidateSnapshot checks the snapshot for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSnapshot(snap *Snapshot) []error {
	var errs []error

	projectRefs := make(map[string]bool)
	errs = append(errs, validateProjects(snap.Projects, projectRefs)...)
	errs = append(errs, validateLabor(snap.Labor, projectRefs)...)
	errs = append(errs, validateInvoices(snap.Invoices)...)
	errs = append(errs, validateUnions(snap.Unions)...)

	return errs
}

// checkRecord runs the struct-tag rules of the import shape and of the
// converted domain record.
func checkRecord(prefix string, shape any, record any) []error {
	var errs []error
	if err := domain.ValidateRecord(shape); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
	}
	if record != nil {
		if err := domain.ValidateRecord(record); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}
	return errs
}

func validateProjects(projects []ProjectImport, refs map[string]bool) []error {
	var errs []error

	for i := range projects {
		p := &projects[i]
		prefix := fmt.Sprintf("projects[%d]", i)

		if p.Ref != "" {
			if refs[p.Ref] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, p.Ref))
			}
			refs[p.Ref] = true
		}

		project, err := toProject(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
			errs = append(errs, checkRecord(prefix, p, nil)...)
		} else {
			errs = append(errs, checkRecord(prefix, p, project)...)
			if project.OriginalCompletionDate != nil && project.StartDate != nil &&
				project.OriginalCompletionDate.Before(*project.StartDate) {
				errs = append(errs, fmt.Errorf("%s.original_completion_date must not precede start_date", prefix))
			}
		}

		for j := range p.Events {
			e := &p.Events[j]
			eprefix := fmt.Sprintf("%s.events[%d]", prefix, j)
			ev, err := toEvent(e)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%w", eprefix, err))
				errs = append(errs, checkRecord(eprefix, e, nil)...)
				continue
			}
			errs = append(errs, checkRecord(eprefix, e, ev)...)
		}
	}

	return errs
}

func validateLabor(labor []LaborImport, projectRefs map[string]bool) []error {
	var errs []error

	for i := range labor {
		l := &labor[i]
		prefix := fmt.Sprintf("labor[%d]", i)

		if l.ProjectRef != "" && !projectRefs[l.ProjectRef] {
			errs = append(errs, fmt.Errorf("%s.project_ref: ref %q not found in projects", prefix, l.ProjectRef))
		}

		rec, err := toLabor(l)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
			errs = append(errs, checkRecord(prefix, l, nil)...)
			continue
		}
		// Project IDs are assigned on insert; stand in a positive one.
		rec.ProjectID = 1
		errs = append(errs, checkRecord(prefix, l, rec)...)
	}

	return errs
}

func validateInvoices(invoices []InvoiceImport) []error {
	var errs []error

	for i := range invoices {
		inv := &invoices[i]
		prefix := fmt.Sprintf("invoices[%d]", i)
		rec, err := toInvoice(inv)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
			errs = append(errs, checkRecord(prefix, inv, nil)...)
			continue
		}
		errs = append(errs, checkRecord(prefix, inv, rec)...)
	}

	return errs
}

func validateUnions(unions []UnionImport) []error {
	var errs []error

	names := make(map[string]bool)
	for i := range unions {
		u := &unions[i]
		prefix := fmt.Sprintf("unions[%d]", i)

		if u.Name != "" {
			if names[u.Name] {
				errs = append(errs, fmt.Errorf("%s.name: duplicate union %q", prefix, u.Name))
			}
			names[u.Name] = true
		}
		errs = append(errs, checkRecord(prefix, u, &domain.Union{Name: u.Name, Description: u.Description})...)

		seen := make(map[string]bool)
		for j, r := range u.Rates {
			rprefix := fmt.Sprintf("%s.rates[%d]", prefix, j)
			key := r.PayrollCode + "/" + r.BenefitType
			if seen[key] {
				errs = append(errs, fmt.Errorf("%s: duplicate rate for %s", rprefix, key))
			}
			seen[key] = true
			errs = append(errs, checkRecord(rprefix, &r, toRate(r))...)
		}
	}

	return errs
}
