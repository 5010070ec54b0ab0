package core

import "reflect"

// dependOnInherited finds the nearest inherited ancestor whose widget has
// the requested concrete type, registers e as a dependent, and returns the
// widget. It returns nil when no matching ancestor exists; callers fall
// back to their own defaults in that case.
func dependOnInherited(e *element, inheritedType reflect.Type) InheritedWidget {
	o := e.owner
	for id := e.parent; id != NoElement; {
		ancestor := o.at(id)
		if ancestor == nil {
			break
		}
		if ancestor.kind == kindInherited && matchesInheritedType(ancestor.widget, inheritedType) {
			o.addDependent(ancestor, e)
			return ancestor.widget.(InheritedWidget)
		}
		id = ancestor.parent
	}
	return nil
}

// matchesInheritedType compares the widget's dynamic type against the
// requested type, tolerating a pointer level on either side so that
// DependOnInherited(reflect.TypeOf(Theme{})) finds a *Theme ancestor.
func matchesInheritedType(w Widget, inheritedType reflect.Type) bool {
	actual := reflect.TypeOf(w)
	if actual == inheritedType {
		return true
	}
	if actual.Kind() == reflect.Ptr && actual.Elem() == inheritedType {
		return true
	}
	if inheritedType.Kind() == reflect.Ptr && inheritedType.Elem() == actual {
		return true
	}
	return false
}

// addDependent links a dependent to its inherited provider in both
// directions. The reverse edge is what clearDependencies uses to drop the
// registration when the dependent rebuilds or unmounts.
func (o *BuildOwner) addDependent(provider, dependent *element) {
	if _, registered := provider.dependents[dependent.id]; registered {
		return
	}
	provider.dependents[dependent.id] = struct{}{}
	dependent.dependencies = append(dependent.dependencies, provider.id)
}

// clearDependencies removes e from the dependent sets of every provider it
// registered with. Registrations are re-established as the next build calls
// DependOnInherited again, so a build that stops reading a provider stops
// being notified by it.
func (o *BuildOwner) clearDependencies(e *element) {
	for _, providerID := range e.dependencies {
		if provider := o.at(providerID); provider != nil && provider.dependents != nil {
			delete(provider.dependents, e.id)
		}
	}
	e.dependencies = nil
}

// notifyDependents marks every registered dependent in the provider's
// subtree dirty. The walk stops descending at a nested inherited element of
// the same widget type: that element shadows this provider, so everything
// below it depends on the nearer one. Stateful dependents additionally
// receive DidChangeDependencies before the rebuild flush.
func (o *BuildOwner) notifyDependents(e *element) {
	providerType := reflect.TypeOf(e.widget)
	o.walkSubtree(e, func(d *element) bool {
		// Same matcher as dependOnInherited, so a scope that would satisfy
		// a lookup also blocks propagation from above it.
		if d.kind == kindInherited && matchesInheritedType(d.widget, providerType) {
			return false
		}
		if _, registered := e.dependents[d.id]; registered {
			if d.state != nil {
				d.state.DidChangeDependencies()
			}
			o.markNeedsBuild(d)
		}
		return true
	})
}
