package catalog

import "github.com/tu-usuario/suite-pro/internal/domain/entity"

// SidebarItem entrada de navegación de un módulo. RequiredPermission vacío
// significa visible para cualquier miembro con el módulo licenciado.
type SidebarItem struct {
	Key                string
	Label              string
	Path               string
	RequiredPermission string
}

// Widget widget de dashboard de un módulo.
type Widget struct {
	Key                string
	Label              string
	RequiredPermission string
}

// ModuleManifest es lo que un módulo aporta a la UI (sidebar + widgets).
type ModuleManifest struct {
	ModuleKey string
	Sidebar   []SidebarItem
	Widgets   []Widget
}

// Registry es el registro de manifiestos por módulo. Se construye una sola vez
// en el arranque y se inyecta de solo lectura; nunca estado global mutable.
type Registry struct {
	manifests map[string]ModuleManifest
	order     []string
}

// permChecker es el contrato mínimo para filtrar: lo cumple authz.PermissionSet.
type permChecker interface {
	Has(key string) bool
}

// BuildRegistry arma el registro estático de la suite. El orden de inserción es
// el orden de presentación.
func BuildRegistry() *Registry {
	r := &Registry{manifests: make(map[string]ModuleManifest)}
	r.add(ModuleManifest{
		ModuleKey: entity.ModuleHR,
		Sidebar: []SidebarItem{
			{Key: "hr.employees", Label: "Empleados", Path: "/hr/employees", RequiredPermission: "hr.employees.view"},
			{Key: "hr.leave", Label: "Ausencias", Path: "/hr/leave", RequiredPermission: "hr.leave.view"},
			{Key: "hr.payroll", Label: "Nómina", Path: "/hr/payroll", RequiredPermission: "hr.payroll.view"},
		},
		Widgets: []Widget{
			{Key: "hr.headcount", Label: "Headcount", RequiredPermission: "hr.employees.view"},
			{Key: "hr.pending_leave", Label: "Ausencias pendientes", RequiredPermission: "hr.leave.view"},
		},
	})
	r.add(ModuleManifest{
		ModuleKey: entity.ModuleTicketing,
		Sidebar: []SidebarItem{
			{Key: "ticketing.inbox", Label: "Tickets", Path: "/ticketing", RequiredPermission: "ticketing.tickets.view"},
			{Key: "ticketing.reports", Label: "Reportes", Path: "/ticketing/reports", RequiredPermission: "ticketing.reports.view"},
		},
		Widgets: []Widget{
			{Key: "ticketing.open", Label: "Tickets abiertos", RequiredPermission: "ticketing.tickets.view"},
		},
	})
	r.add(ModuleManifest{
		ModuleKey: entity.ModuleProjects,
		Sidebar: []SidebarItem{
			{Key: "projects.board", Label: "Proyectos", Path: "/projects", RequiredPermission: "projects.projects.view"},
			{Key: "projects.timesheets", Label: "Horas", Path: "/projects/timesheets", RequiredPermission: "projects.timesheets.view"},
		},
		Widgets: []Widget{
			{Key: "projects.deadlines", Label: "Próximos vencimientos", RequiredPermission: "projects.projects.view"},
		},
	})
	r.add(ModuleManifest{
		ModuleKey: entity.ModuleMarketplace,
		Sidebar: []SidebarItem{
			{Key: "marketplace.listings", Label: "Publicaciones", Path: "/marketplace", RequiredPermission: "marketplace.listings.view"},
			{Key: "marketplace.orders", Label: "Órdenes", Path: "/marketplace/orders", RequiredPermission: "marketplace.orders.view"},
		},
	})
	r.add(ModuleManifest{
		ModuleKey: entity.ModuleBilling,
		Sidebar: []SidebarItem{
			{Key: "billing.invoices", Label: "Facturas", Path: "/billing", RequiredPermission: "billing.invoices.view"},
			{Key: "billing.settings", Label: "Configuración", Path: "/billing/settings", RequiredPermission: "billing.settings.manage"},
		},
		Widgets: []Widget{
			{Key: "billing.revenue", Label: "Ingresos del mes", RequiredPermission: "billing.invoices.view"},
		},
	})
	return r
}

func (r *Registry) add(m ModuleManifest) {
	r.manifests[m.ModuleKey] = m
	r.order = append(r.order, m.ModuleKey)
}

// Manifest devuelve el manifiesto de un módulo, si existe.
func (r *Registry) Manifest(moduleKey string) (ModuleManifest, bool) {
	m, ok := r.manifests[moduleKey]
	return m, ok
}

// All devuelve los manifiestos en orden de presentación.
func (r *Registry) All() []ModuleManifest {
	out := make([]ModuleManifest, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.manifests[key])
	}
	return out
}

// Filter devuelve una copia del manifiesto sin las entradas cuyo permiso
// requerido no está en perms (salvo super admin, que ve todo). Puro: nunca muta
// el registro y preserva el orden de las entradas restantes.
func Filter(m ModuleManifest, perms permChecker, superAdmin bool) ModuleManifest {
	out := ModuleManifest{ModuleKey: m.ModuleKey}
	for _, item := range m.Sidebar {
		if superAdmin || item.RequiredPermission == "" || perms.Has(item.RequiredPermission) {
			out.Sidebar = append(out.Sidebar, item)
		}
	}
	for _, w := range m.Widgets {
		if superAdmin || w.RequiredPermission == "" || perms.Has(w.RequiredPermission) {
			out.Widgets = append(out.Widgets, w)
		}
	}
	return out
}
