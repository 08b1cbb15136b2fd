package entity

// AssetSide selecciona cuál de los dos archivos de una solicitud se lee o escribe.
type AssetSide string

const (
	SideOriginal AssetSide = "original"
	SideEdited   AssetSide = "edited"
)

// ParseAssetSide valida el selector recibido en la ruta de descarga.
func ParseAssetSide(s string) (AssetSide, bool) {
	switch AssetSide(s) {
	case SideOriginal, SideEdited:
		return AssetSide(s), true
	default:
		return "", false
	}
}

// AssetSource es la variante efectiva de almacenamiento de un archivo.
type AssetSource int

const (
	// SourceAbsent: no hay bytes ni URL (registro legado o lado aún no cargado).
	SourceAbsent AssetSource = iota
	// SourceInline: bytes embebidos en el registro.
	SourceInline
	// SourceExternal: solo existe una URL (host externo o data URI).
	SourceExternal
)

// Asset describe un archivo de imagen tal como se persiste.
// Content y URL pueden coexistir (doble escritura); Content siempre tiene prioridad.
type Asset struct {
	FileName    string
	ContentType string
	URL         string // URL externa o data URI
	Content     []byte // contenido embebido
}

// Source devuelve la variante efectiva. Inline gana sobre External.
func (a Asset) Source() AssetSource {
	switch {
	case len(a.Content) > 0:
		return SourceInline
	case a.URL != "":
		return SourceExternal
	default:
		return SourceAbsent
	}
}

// IsPresent indica si el archivo tiene nombre y al menos una representación de sus bytes.
func (a Asset) IsPresent() bool {
	return a.FileName != "" && a.Source() != SourceAbsent
}

// IsZero indica que ningún campo del archivo está definido.
func (a Asset) IsZero() bool {
	return a.FileName == "" && a.ContentType == "" && a.URL == "" && len(a.Content) == 0
}

// WithoutContent devuelve una copia sin los bytes embebidos (proyección de listados).
func (a Asset) WithoutContent() Asset {
	a.Content = nil
	return a
}
