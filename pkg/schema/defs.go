package schema

// Names of the shared definitions injected into every derived document.
const (
	DefAddress       = "Address"
	DefContact       = "Contact"
	DefAuditMetadata = "AuditMetadata"
	DefImageMeta     = "ImageMeta"
	DefDocumentMeta  = "DocumentMeta"
)

// Definition is a named entry of $defs.
type Definition struct {
	Name string
	Node Node
}

// defRef returns the local pointer to a shared definition.
func defRef(name string) string {
	return "#/$defs/" + name
}

func str(format string) *PrimitiveNode {
	return &PrimitiveNode{Type: TypeString, Format: format}
}

// SharedDefinitions returns a fresh copy of the fixed $defs set. Each call
// allocates new nodes so documents never share mutable state.
func SharedDefinitions() []Definition {
	return []Definition{
		{Name: DefAddress, Node: &ObjectNode{
			Properties: []Property{
				{Name: "street", Node: str("")},
				{Name: "city", Node: str("")},
				{Name: "postalCode", Node: str("")},
				{Name: "region", Node: str("")},
				{Name: "country", Node: str("")},
			},
			Required: []string{"street", "city", "country"},
		}},
		{Name: DefContact, Node: &ObjectNode{
			Properties: []Property{
				{Name: "name", Node: str("")},
				{Name: "email", Node: str("email")},
				{Name: "phone", Node: str("")},
				{Name: "role", Node: str("")},
			},
			Required: []string{"name"},
		}},
		{Name: DefAuditMetadata, Node: &ObjectNode{
			Properties: []Property{
				{Name: "createdAt", Node: str("date-time")},
				{Name: "updatedAt", Node: str("date-time")},
				{Name: "version", Node: &PrimitiveNode{Type: TypeInteger}},
			},
			Required: []string{"createdAt"},
		}},
		{Name: DefImageMeta, Node: &ObjectNode{
			Properties: []Property{
				{Name: "url", Node: str("uri")},
				{Name: "alt", Node: str("")},
				{Name: "mimeType", Node: str("")},
				{Name: "width", Node: &PrimitiveNode{Type: TypeInteger}},
				{Name: "height", Node: &PrimitiveNode{Type: TypeInteger}},
			},
			Required: []string{"url"},
		}},
		{Name: DefDocumentMeta, Node: &ObjectNode{
			Properties: []Property{
				{Name: "url", Node: str("uri")},
				{Name: "fileName", Node: str("")},
				{Name: "mimeType", Node: str("")},
				{Name: "sizeBytes", Node: &PrimitiveNode{Type: TypeInteger}},
			},
			Required: []string{"url", "fileName"},
		}},
	}
}
