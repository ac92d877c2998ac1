package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"roxtor-ops/models"
	"roxtor-ops/radar"
)

// maxCatalogUpload caps the document accepted by the catalog importer.
const maxCatalogUpload = 20 << 20

func (h *Handler) GetCatalogHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Products())
}

func (h *Handler) CreateProductHandler(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.app.AddProduct(ctx, p)
	if err != nil {
		h.respondError(c, err, "Error al crear el producto")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateProductHandler(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	updated, err := h.app.UpdateProduct(ctx, c.Param("id"), p)
	if err != nil {
		h.respondError(c, err, "Error al actualizar el producto")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteProductHandler(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.app.DeleteProduct(ctx, c.Param("id")); err != nil {
		h.respondError(c, err, "Error al eliminar el producto")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
}

// SetStockHandler overwrites the inventory count of a product.
func (h *Handler) SetStockHandler(c *gin.Context) {
	var in struct {
		Inventory *int `json:"inventory" binding:"required"` // puntero para aceptar 0
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.app.SetStock(ctx, c.Param("id"), *in.Inventory)
	if err != nil {
		h.respondError(c, err, "Error al actualizar el stock")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ImportCatalogHandler reads products out of an uploaded PDF or image.
func (h *Handler) ImportCatalogHandler(c *gin.Context) {
	// 1. Recibir el archivo del formulario
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo requerido"})
		return
	}
	if fh.Size > maxCatalogUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Archivo demasiado grande"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		badRequest(c)
		return
	}

	// 2. Detectar el tipo real si el navegador no lo manda
	mime := fh.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	ctx, cancel := h.aiCtx(c)
	defer cancel()

	// 3. Extraer productos con IA y agregarlos al catálogo
	added, err := h.app.ImportCatalog(ctx, radar.Document{MIMEType: mime, Data: data})
	if err != nil {
		h.respondAIError(c, err, "No se pudo leer el catálogo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "count": len(added)})
}
