// Package router assigns approver groups to approval levels.
package router
