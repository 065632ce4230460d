/*
Package utils contains decorators that are not bound to any extension:
transaction atomicity, panic recovery, logging, action tagging and
metrics.
*/
package utils
